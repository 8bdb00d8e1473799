package handler

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/Rrens/reply-assistant/internal/api/response"
	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/line"
	"github.com/rs/zerolog/log"
)

// EventDispatcher processes the text events of one delivery
type EventDispatcher interface {
	Dispatch(ctx context.Context, events []domain.InboundMessage)
}

// WebhookHandler receives messaging platform deliveries
type WebhookHandler struct {
	dispatcher EventDispatcher
	inflight   sync.WaitGroup
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(dispatcher EventDispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher}
}

// Handle parses a delivery, acknowledges it and processes its text events in
// the background. Non-text events are acknowledged and ignored.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "failed to read request body")
		return
	}

	req, err := line.ParseWebhook(body)
	if err != nil {
		response.BadRequest(w, "invalid webhook payload")
		return
	}

	events := req.TextMessages()
	log.Debug().
		Int("events", len(req.Events)).
		Int("text_events", len(events)).
		Msg("webhook received")

	if len(events) > 0 {
		// replies go out with the event's reply token, so processing outlives
		// the request
		ctx := context.WithoutCancel(r.Context())
		h.inflight.Add(1)
		go func() {
			defer h.inflight.Done()
			h.dispatcher.Dispatch(ctx, events)
		}()
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// Wait blocks until every accepted delivery has been processed or ctx ends
func (h *WebhookHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
