package service

import (
	"strings"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
)

// User-facing replies
const (
	msgAskEmail          = "Please send the email address you registered with."
	msgInvalidEmail      = "That does not look like an email address. Please send the email address you registered with."
	msgNotRegistered     = "That email address is not registered. Please contact an administrator."
	msgLinked            = "Your account has been linked."
	msgAskUse            = "Would you like a reply suggestion?"
	msgNoPersons         = "No persons are registered yet. Please add one first."
	msgChoosePerson      = "Who is the reply for?"
	msgChooseFromOptions = "Please choose from the options."
	msgAskInput          = "What should the reply be about?"
	msgSuggestionPrefix  = "Suggested reply:\n"
	msgAskActual         = "Now send the message you actually want to reply with."
	msgSaved             = "Your reply has been saved. Thank you!"
	msgDeclined          = "OK. Send a message any time you need a suggestion."
	msgCancelled         = "Cancelled."
	msgProcessing        = "Processing, please wait."

	// GenericErrorMessage is sent when an event could not be processed
	GenericErrorMessage = "Something went wrong. Please try again in a moment."
)

const selectPrefix = "select:"

// maxQuickReplies is the most options one LINE message can carry. Longer
// person lists are spelled out in the text so every person stays selectable.
const maxQuickReplies = 13

const msgSendCode = "You can also send the code next to a name:"

var (
	yesWords = []string{"yes", "はい"}
	noWords  = []string{"no", "いいえ"}
)

func matchesAny(text string, words []string) bool {
	for _, w := range words {
		if strings.EqualFold(text, w) {
			return true
		}
	}
	return false
}

func yesNoOptions() []domain.QuickReply {
	return []domain.QuickReply{
		{Label: "Yes", Value: "yes"},
		{Label: "No", Value: "no"},
	}
}

func askUseMessage() domain.OutboundMessage {
	return domain.OutboundMessage{Text: msgAskUse, QuickReplies: yesNoOptions()}
}

func personOptions(text string, persons []domain.Person) domain.OutboundMessage {
	msg := domain.OutboundMessage{Text: text}
	if len(persons) > maxQuickReplies {
		var b strings.Builder
		b.WriteString(text)
		b.WriteString("\n")
		b.WriteString(msgSendCode)
		for _, p := range persons {
			b.WriteString("\n")
			b.WriteString(p.Name)
			b.WriteString(": ")
			b.WriteString(selectPrefix)
			b.WriteString(p.ID.String())
		}
		msg.Text = b.String()
	}
	for _, p := range persons {
		msg.QuickReplies = append(msg.QuickReplies, domain.QuickReply{
			Label: p.Name,
			Value: selectPrefix + p.ID.String(),
		})
	}
	return msg
}

// parseSelection extracts the person id from a "select:<id>" reply
func parseSelection(text string) (uuid.UUID, bool) {
	raw, ok := strings.CutPrefix(text, selectPrefix)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// isEmail applies the basic syntax rule: exactly one @, non-empty local and
// domain parts, and a dot in the domain.
func isEmail(text string) bool {
	if strings.Count(text, "@") != 1 || strings.ContainsAny(text, " \t\r\n") {
		return false
	}
	local, domainPart, _ := strings.Cut(text, "@")
	return local != "" && domainPart != "" && strings.Contains(domainPart, ".")
}
