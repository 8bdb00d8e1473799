package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/llm"
	"github.com/rs/zerolog/log"
)

// gate handles conversations that are not linked to an account yet
func (e *ConversationEngine) gate(ctx context.Context, conversationID string, session *domain.Session, text string) (step, error) {
	if session == nil {
		return transition(domain.AwaitingEmail{}, domain.TextMessage(msgAskEmail)), nil
	}

	if _, ok := session.State.(domain.AwaitingEmail); !ok {
		return reply(domain.TextMessage(msgAskEmail)), nil
	}

	if !isEmail(text) {
		return reply(domain.TextMessage(msgInvalidEmail)), nil
	}

	account, err := e.directory.FindByEmail(ctx, text)
	if err != nil {
		return step{}, dependencyErr(DependencyDirectory, err)
	}
	if account == nil {
		log.Info().Str("conversation_id", conversationID).Msg("email not found in directory")
		return reply(domain.TextMessage(msgNotRegistered)), nil
	}

	created, err := e.profiles.Ensure(ctx, &domain.AccountProfile{
		AccountID:      account.ID,
		ConversationID: conversationID,
		Email:          account.Email,
	})
	if err != nil {
		return step{}, dependencyErr(DependencyStore, err)
	}
	if created {
		log.Info().
			Str("conversation_id", conversationID).
			Str("account_id", account.ID).
			Msg("account linked")
	}

	return transition(
		domain.AwaitingUseConfirmation{AccountID: account.ID},
		domain.TextMessage(msgLinked),
		askUseMessage(),
	), nil
}

// advance runs the main flow for a linked conversation
func (e *ConversationEngine) advance(ctx context.Context, profile *domain.AccountProfile, session *domain.Session, text string) (step, error) {
	if session == nil {
		return transition(domain.AwaitingUseConfirmation{AccountID: profile.AccountID}, askUseMessage()), nil
	}

	switch s := session.State.(type) {
	case domain.AwaitingEmail:
		// linked by an earlier event whose session write did not land
		return transition(domain.AwaitingUseConfirmation{AccountID: profile.AccountID}, askUseMessage()), nil

	case domain.AwaitingUseConfirmation:
		return e.confirmUse(ctx, s, text)

	case domain.AwaitingPersonSelection:
		return e.selectPerson(ctx, s, text)

	case domain.AwaitingInputText:
		return e.suggestReply(ctx, s, text)

	case domain.AwaitingActualReplyText:
		example := &domain.ReplyExample{
			PersonID:  s.PersonID,
			AccountID: s.AccountID,
			InputText: s.InputText,
			ReplyText: text,
		}
		return step{
			next:     domain.Completed{From: s},
			example:  example,
			messages: []domain.OutboundMessage{domain.TextMessage(msgSaved)},
		}, nil

	default:
		log.Warn().
			Str("session_id", session.ID.String()).
			Str("status", string(session.Status())).
			Msg("session in unhandled state")
		return reply(domain.TextMessage(msgProcessing)), nil
	}
}

func (e *ConversationEngine) confirmUse(ctx context.Context, s domain.AwaitingUseConfirmation, text string) (step, error) {
	switch {
	case matchesAny(text, yesWords):
		persons, err := e.persons.ListByAccount(ctx, s.AccountID)
		if err != nil {
			return step{}, dependencyErr(DependencyStore, err)
		}
		if len(persons) == 0 {
			return reply(domain.TextMessage(msgNoPersons)), nil
		}
		return transition(
			domain.AwaitingPersonSelection{AccountID: s.AccountID},
			personOptions(msgChoosePerson, persons),
		), nil

	case matchesAny(text, noWords):
		return transition(domain.Completed{From: s}, domain.TextMessage(msgDeclined)), nil

	default:
		return reply(askUseMessage()), nil
	}
}

func (e *ConversationEngine) selectPerson(ctx context.Context, s domain.AwaitingPersonSelection, text string) (step, error) {
	if id, ok := parseSelection(text); ok {
		person, err := e.persons.GetByID(ctx, id)
		if err != nil {
			return step{}, dependencyErr(DependencyStore, err)
		}
		if person != nil && person.AccountID == s.AccountID {
			return transition(
				domain.AwaitingInputText{AccountID: s.AccountID, PersonID: person.ID},
				domain.TextMessage(msgAskInput),
			), nil
		}
	}

	persons, err := e.persons.ListByAccount(ctx, s.AccountID)
	if err != nil {
		return step{}, dependencyErr(DependencyStore, err)
	}
	if len(persons) == 0 {
		return reply(domain.TextMessage(msgNoPersons)), nil
	}
	return reply(personOptions(msgChooseFromOptions, persons)), nil
}

func (e *ConversationEngine) suggestReply(ctx context.Context, s domain.AwaitingInputText, text string) (step, error) {
	examples, err := e.examples.ListRecentByPerson(ctx, s.PersonID, e.historyLimit)
	if err != nil {
		return step{}, dependencyErr(DependencyStore, err)
	}

	history := make([]llm.Example, 0, len(examples))
	for _, ex := range examples {
		history = append(history, llm.Example{InputText: ex.InputText, ReplyText: ex.ReplyText})
	}

	suggestion, err := e.generate(ctx, llm.Request{InputText: text, History: history})
	if err != nil {
		return step{}, err
	}

	return transition(
		domain.AwaitingActualReplyText{
			AccountID:      s.AccountID,
			PersonID:       s.PersonID,
			InputText:      text,
			SuggestedReply: suggestion,
		},
		domain.TextMessage(msgSuggestionPrefix+suggestion),
		domain.TextMessage(msgAskActual),
	), nil
}

// generate returns the suggestion, or the fallback when the generator
// answered with something unusable
func (e *ConversationEngine) generate(ctx context.Context, req llm.Request) (string, error) {
	start := time.Now()
	resp, err := e.generator.GenerateReply(ctx, req)
	e.metrics.ObserveGenerationLatency(time.Since(start))

	switch {
	case errors.Is(err, llm.ErrInvalidResponse):
		log.Warn().Err(err).Msg("unusable generation response, using fallback")
	case err != nil:
		return "", dependencyErr(DependencyGeneration, err)
	case resp == nil || strings.TrimSpace(resp.Reply) == "":
		log.Warn().Msg("empty generation response, using fallback")
	default:
		log.Debug().
			Str("model", resp.Model).
			Int("tokens", resp.TokensUsed).
			Int64("latency_ms", resp.LatencyMs).
			Msg("reply generated")
		return strings.TrimSpace(resp.Reply), nil
	}

	e.metrics.Fallback()
	return e.fallback, nil
}
