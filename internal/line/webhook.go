package line

import (
	"encoding/json"
	"fmt"

	"github.com/Rrens/reply-assistant/internal/domain"
)

// WebhookRequest is one webhook delivery
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is a single webhook event. Only the fields the assistant reads are
// decoded.
type Event struct {
	Type       string   `json:"type"`
	Mode       string   `json:"mode,omitempty"`
	Timestamp  int64    `json:"timestamp"`
	ReplyToken string   `json:"replyToken,omitempty"`
	Source     Source   `json:"source"`
	Message    *Message `json:"message,omitempty"`
}

// Source identifies who sent an event
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// Message is the message payload of a message event
type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ParseWebhook decodes a webhook body
func ParseWebhook(body []byte) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}
	return &req, nil
}

// IsText reports whether the event is a text message the assistant handles
func (e Event) IsText() bool {
	return e.Type == "message" && e.Message != nil && e.Message.Type == "text" && e.Source.UserID != ""
}

// Inbound converts a text event to the transport-neutral form
func (e Event) Inbound() domain.InboundMessage {
	msg := domain.InboundMessage{
		ConversationID: e.Source.UserID,
		ReplyToken:     e.ReplyToken,
	}
	if e.Message != nil {
		msg.Text = e.Message.Text
	}
	return msg
}

// TextMessages returns the text events of a delivery in order
func (r *WebhookRequest) TextMessages() []domain.InboundMessage {
	var out []domain.InboundMessage
	for _, e := range r.Events {
		if e.IsText() {
			out = append(out, e.Inbound())
		}
	}
	return out
}
