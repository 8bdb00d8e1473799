package service

import (
	"context"
	"strings"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/llm"
	"github.com/Rrens/reply-assistant/internal/observability"
	"github.com/rs/zerolog/log"
)

const (
	defaultHistoryLimit       = 10
	defaultFallbackSuggestion = "reply generation failed"
)

// ReplyGenerator produces reply suggestions
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// ConversationEngine advances the per-conversation session state machine,
// one inbound text at a time. Callers serialize Handle per conversation.
type ConversationEngine struct {
	sessions       domain.SessionRepository
	profiles       domain.ProfileRepository
	directory      domain.AccountDirectory
	persons        domain.PersonRepository
	examples       domain.ReplyExampleRepository
	generator      ReplyGenerator
	metrics        *observability.Metrics
	cancelKeywords []string
	fallback       string
	historyLimit   int
}

// NewConversationEngine creates a new conversation engine
func NewConversationEngine(
	sessions domain.SessionRepository,
	profiles domain.ProfileRepository,
	directory domain.AccountDirectory,
	persons domain.PersonRepository,
	examples domain.ReplyExampleRepository,
	generator ReplyGenerator,
	metrics *observability.Metrics,
	cfg config.ConversationConfig,
	historyLimit int,
) *ConversationEngine {
	fallback := cfg.FallbackSuggestion
	if fallback == "" {
		fallback = defaultFallbackSuggestion
	}
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &ConversationEngine{
		sessions:       sessions,
		profiles:       profiles,
		directory:      directory,
		persons:        persons,
		examples:       examples,
		generator:      generator,
		metrics:        metrics,
		cancelKeywords: cfg.CancelKeywords,
		fallback:       fallback,
		historyLimit:   historyLimit,
	}
}

// step is the outcome of one event: the state to commit (nil keeps the
// session as it is), an optional reply example stored with it, and the
// messages to send back.
type step struct {
	next     domain.SessionState
	example  *domain.ReplyExample
	messages []domain.OutboundMessage
}

func reply(messages ...domain.OutboundMessage) step {
	return step{messages: messages}
}

func transition(next domain.SessionState, messages ...domain.OutboundMessage) step {
	return step{next: next, messages: messages}
}

// Handle processes one inbound text and returns the replies to send.
// A returned error means nothing was committed.
func (e *ConversationEngine) Handle(ctx context.Context, conversationID, text string) ([]domain.OutboundMessage, error) {
	text = strings.TrimSpace(text)

	session, err := e.sessions.FindActive(ctx, conversationID)
	if err != nil {
		return nil, dependencyErr(DependencyStore, err)
	}

	var st step
	if e.isCancel(text) {
		st = cancel(session)
	} else {
		profile, err := e.profiles.GetByConversationID(ctx, conversationID)
		if err != nil {
			return nil, dependencyErr(DependencyStore, err)
		}

		if profile == nil {
			st, err = e.gate(ctx, conversationID, session, text)
		} else {
			st, err = e.advance(ctx, profile, session, text)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := e.commit(ctx, conversationID, session, text, st); err != nil {
		return nil, err
	}
	return st.messages, nil
}

func (e *ConversationEngine) isCancel(text string) bool {
	for _, k := range e.cancelKeywords {
		if text == k {
			return true
		}
	}
	return false
}

func cancel(session *domain.Session) step {
	if session == nil {
		return reply(domain.TextMessage(msgCancelled))
	}
	return transition(domain.Cancelled{From: session.State}, domain.TextMessage(msgCancelled))
}

func (e *ConversationEngine) commit(ctx context.Context, conversationID string, session *domain.Session, text string, st step) error {
	if st.next == nil {
		return nil
	}

	var from domain.SessionStatus
	if session == nil {
		session = &domain.Session{
			ConversationID: conversationID,
			TriggerText:    text,
		}
	} else {
		from = session.Status()
	}

	prev := session.State
	session.State = st.next
	if err := e.sessions.Save(ctx, session, st.example); err != nil {
		session.State = prev
		return dependencyErr(DependencyStore, err)
	}

	e.metrics.Transition(string(from), string(st.next.Status()))
	log.Info().
		Str("conversation_id", conversationID).
		Str("session_id", session.ID.String()).
		Str("from", string(from)).
		Str("to", string(st.next.Status())).
		Msg("session transition")
	return nil
}
