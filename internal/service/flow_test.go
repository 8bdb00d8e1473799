package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/llm"
	"github.com/Rrens/reply-assistant/internal/repository"
	"github.com/Rrens/reply-assistant/internal/repository/sqlite"
	"github.com/Rrens/reply-assistant/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticDirectory map[string]string

func (d staticDirectory) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	id, ok := d[email]
	if !ok {
		return nil, nil
	}
	return &domain.Account{ID: id, Email: email}, nil
}

type recordingGenerator struct {
	requests []llm.Request
	reply    string
}

func (g *recordingGenerator) GenerateReply(_ context.Context, req llm.Request) (*llm.Response, error) {
	g.requests = append(g.requests, req)
	return &llm.Response{Reply: g.reply}, nil
}

func TestConversationFlow_EndToEnd(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	store := repository.NewSQLiteStore(db)
	t.Cleanup(func() { _ = store.Close() })

	const conversation = "U123"
	gen := &recordingGenerator{reply: "Don't forget the meeting!"}
	engine := service.NewConversationEngine(
		store.Sessions,
		store.Profiles,
		staticDirectory{"foo@bar.com": "acc-42"},
		store.Persons,
		store.ReplyExamples,
		gen,
		nil,
		config.ConversationConfig{CancelKeywords: []string{"cancel"}},
		10,
	)

	persons := service.NewPersonService(store.Persons, store.ReplyExamples)
	_, err = persons.Create(ctx, "acc-42", domain.PersonCreate{Name: "Alice"})
	require.NoError(t, err)
	bob, err := persons.Create(ctx, "acc-42", domain.PersonCreate{Name: "Bob"})
	require.NoError(t, err)

	send := func(text string) []domain.OutboundMessage {
		t.Helper()
		messages, err := engine.Handle(ctx, conversation, text)
		require.NoError(t, err)
		require.NotEmpty(t, messages)
		return messages
	}
	status := func() domain.SessionStatus {
		t.Helper()
		session, err := store.Sessions.FindActive(ctx, conversation)
		require.NoError(t, err)
		if session == nil {
			return ""
		}
		return session.Status()
	}

	send("hello")
	assert.Equal(t, domain.StatusAwaitingEmail, status())

	messages := send("foo@bar.com")
	require.Len(t, messages, 2)
	assert.Len(t, messages[1].QuickReplies, 2)
	assert.Equal(t, domain.StatusAwaitingUseConfirmation, status())

	messages = send("yes")
	require.Len(t, messages[0].QuickReplies, 2)
	assert.Equal(t, "select:"+bob.ID.String(), messages[0].QuickReplies[1].Value)
	assert.Equal(t, domain.StatusAwaitingPersonSelection, status())

	send("select:" + bob.ID.String())
	assert.Equal(t, domain.StatusAwaitingInputText, status())

	messages = send("remind about meeting")
	assert.True(t, strings.HasSuffix(messages[0].Text, "Don't forget the meeting!"))
	require.Len(t, gen.requests, 1)
	assert.NotNil(t, gen.requests[0].History)
	assert.Empty(t, gen.requests[0].History)
	assert.Equal(t, domain.StatusAwaitingActualReplyText, status())

	send("Sure, see you then")
	assert.Equal(t, domain.SessionStatus(""), status())

	examples, err := store.ReplyExamples.ListRecentByPerson(ctx, bob.ID, 10)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "remind about meeting", examples[0].InputText)
	assert.Equal(t, "Sure, see you then", examples[0].ReplyText)
	assert.Equal(t, "acc-42", examples[0].AccountID)

	history, err := store.Sessions.ListByConversation(ctx, conversation, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.StatusCompleted, history[0].Status)
	assert.Equal(t, "hello", history[0].TriggerText)

	// a linked conversation skips the email step next time
	send("again")
	assert.Equal(t, domain.StatusAwaitingUseConfirmation, status())
	send("cancel")
	assert.Equal(t, domain.SessionStatus(""), status())
}

func TestConversationFlow_HistoryFeedsNextSuggestion(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	store := repository.NewSQLiteStore(db)
	t.Cleanup(func() { _ = store.Close() })

	person := &domain.Person{ID: uuid.New(), AccountID: "acc-1", Name: "Carol"}
	require.NoError(t, store.Persons.Create(ctx, person))
	require.NoError(t, store.ReplyExamples.Create(ctx, &domain.ReplyExample{
		ID:        uuid.New(),
		PersonID:  person.ID,
		AccountID: "acc-1",
		InputText: "thanks",
		ReplyText: "Thank you so much!",
	}))
	_, err = store.Profiles.Ensure(ctx, &domain.AccountProfile{
		ID:             uuid.New(),
		AccountID:      "acc-1",
		ConversationID: "U9",
		Email:          "carol@example.com",
	})
	require.NoError(t, err)

	gen := &recordingGenerator{reply: "ok"}
	engine := service.NewConversationEngine(store.Sessions, store.Profiles, staticDirectory{}, store.Persons, store.ReplyExamples, gen, nil, config.ConversationConfig{}, 0)

	for _, text := range []string{"hi", "yes", "select:" + person.ID.String(), "birthday"} {
		_, err := engine.Handle(ctx, "U9", text)
		require.NoError(t, err)
	}

	require.Len(t, gen.requests, 1)
	assert.Equal(t, []llm.Example{{InputText: "thanks", ReplyText: "Thank you so much!"}}, gen.requests[0].History)
}
