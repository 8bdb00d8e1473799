package service

import (
	"context"
	"sync"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/observability"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// MessageHandler processes one inbound text for a conversation
type MessageHandler interface {
	Handle(ctx context.Context, conversationID, text string) ([]domain.OutboundMessage, error)
}

// Replier delivers outbound messages for an inbound event
type Replier interface {
	Reply(ctx context.Context, replyToken string, messages []domain.OutboundMessage) error
}

// Dispatcher fans a webhook delivery out across conversations. Events of one
// conversation run in order, also across overlapping deliveries; different
// conversations run concurrently.
type Dispatcher struct {
	handler     MessageHandler
	replier     Replier
	metrics     *observability.Metrics
	concurrency int
	locks       *conversationLocks
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(handler MessageHandler, replier Replier, metrics *observability.Metrics, concurrency int) *Dispatcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Dispatcher{
		handler:     handler,
		replier:     replier,
		metrics:     metrics,
		concurrency: concurrency,
		locks:       newConversationLocks(),
	}
}

// Dispatch processes all events and returns when every one has been handled.
// A failing event never stops the others.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.InboundMessage) {
	g := new(errgroup.Group)
	g.SetLimit(d.concurrency)

	for _, group := range groupByConversation(events) {
		group := group
		g.Go(func() error {
			unlock := d.locks.lock(group[0].ConversationID)
			defer unlock()
			for _, ev := range group {
				d.process(ctx, ev)
			}
			return nil
		})
	}

	_ = g.Wait()
}

func (d *Dispatcher) process(ctx context.Context, ev domain.InboundMessage) {
	logger := log.With().Str("conversation_id", ev.ConversationID).Logger()

	messages, err := d.handler.Handle(ctx, ev.ConversationID, ev.Text)
	if err != nil {
		dependency := DependencyOf(err)
		logger.Error().Err(err).Str("dependency", dependency).Msg("failed to handle event")
		d.metrics.WebhookEvent("error")
		d.metrics.DependencyError(dependency)
		messages = []domain.OutboundMessage{domain.TextMessage(GenericErrorMessage)}
	} else {
		d.metrics.WebhookEvent("ok")
	}

	if err := d.replier.Reply(ctx, ev.ReplyToken, messages); err != nil {
		logger.Warn().Err(err).Msg("failed to send reply")
	}
}

// groupByConversation splits events per conversation, keeping both the
// order of first appearance and the order within each conversation.
func groupByConversation(events []domain.InboundMessage) [][]domain.InboundMessage {
	index := make(map[string]int)
	var groups [][]domain.InboundMessage
	for _, ev := range events {
		i, ok := index[ev.ConversationID]
		if !ok {
			i = len(groups)
			index[ev.ConversationID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], ev)
	}
	return groups
}

// conversationLocks hands out one mutex per conversation and forgets it once
// nobody holds or waits for it.
type conversationLocks struct {
	mu   sync.Mutex
	held map[string]*conversationLock
}

type conversationLock struct {
	mu   sync.Mutex
	refs int
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{held: make(map[string]*conversationLock)}
}

func (l *conversationLocks) lock(conversationID string) func() {
	l.mu.Lock()
	cl, ok := l.held[conversationID]
	if !ok {
		cl = &conversationLock{}
		l.held[conversationID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.mu.Lock()
	return func() {
		cl.mu.Unlock()
		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.held, conversationID)
		}
		l.mu.Unlock()
	}
}
