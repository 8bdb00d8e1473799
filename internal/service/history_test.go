package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sessionRecord(conversationID string, accountID *string, createdAt time.Time) domain.SessionRecord {
	return domain.SessionRecord{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Status:         domain.StatusCompleted,
		AccountID:      accountID,
		CreatedAt:      createdAt,
	}
}

func TestHistoryService_ListSessions(t *testing.T) {
	profiles := new(MockProfileRepository)
	sessions := new(MockSessionRepository)
	svc := NewHistoryService(profiles, sessions)

	account := testAccount
	other := "acc-2"
	now := time.Now().UTC()

	older := sessionRecord("U1", &account, now.Add(-2*time.Hour))
	unlinkedStart := sessionRecord("U1", nil, now.Add(-3*time.Hour))
	foreign := sessionRecord("U1", &other, now.Add(-time.Minute))
	newest := sessionRecord("U2", &account, now)

	profiles.On("ListByAccount", mock.Anything, testAccount).Return([]domain.AccountProfile{
		{AccountID: testAccount, ConversationID: "U1"},
		{AccountID: testAccount, ConversationID: "U2"},
	}, nil)
	sessions.On("ListByConversation", mock.Anything, "U1", 2).Return([]domain.SessionRecord{foreign, older, unlinkedStart}, nil)
	sessions.On("ListByConversation", mock.Anything, "U2", 2).Return([]domain.SessionRecord{newest}, nil)

	records, err := svc.ListSessions(context.Background(), testAccount, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newest.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)
}

func TestHistoryService_ListSessionsLimits(t *testing.T) {
	for name, tc := range map[string]struct {
		requested int
		want      int
	}{
		"default": {requested: 0, want: defaultSessionLimit},
		"capped":  {requested: 1000, want: maxSessionLimit},
	} {
		t.Run(name, func(t *testing.T) {
			profiles := new(MockProfileRepository)
			sessions := new(MockSessionRepository)
			svc := NewHistoryService(profiles, sessions)

			profiles.On("ListByAccount", mock.Anything, testAccount).Return([]domain.AccountProfile{{ConversationID: "U1"}}, nil)
			sessions.On("ListByConversation", mock.Anything, "U1", tc.want).Return([]domain.SessionRecord{}, nil)

			records, err := svc.ListSessions(context.Background(), testAccount, tc.requested)
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Empty(t, records)
			sessions.AssertExpectations(t)
		})
	}
}

func TestHistoryService_ListSessionsError(t *testing.T) {
	profiles := new(MockProfileRepository)
	svc := NewHistoryService(profiles, new(MockSessionRepository))

	profiles.On("ListByAccount", mock.Anything, testAccount).Return(nil, errors.New("db down"))

	_, err := svc.ListSessions(context.Background(), testAccount, 10)
	assert.Error(t, err)
}
