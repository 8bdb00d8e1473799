package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Rrens/reply-assistant/internal/domain"
)

const (
	defaultSessionLimit = 20
	maxSessionLimit     = 100
)

// HistoryService exposes past conversation sessions to account owners
type HistoryService struct {
	profiles domain.ProfileRepository
	sessions domain.SessionRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(profiles domain.ProfileRepository, sessions domain.SessionRepository) *HistoryService {
	return &HistoryService{profiles: profiles, sessions: sessions}
}

// ListSessions returns the newest sessions of every conversation linked to
// the account. Sessions another account drove on a shared conversation are
// left out.
func (s *HistoryService) ListSessions(ctx context.Context, accountID string, limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = defaultSessionLimit
	}
	if limit > maxSessionLimit {
		limit = maxSessionLimit
	}

	profiles, err := s.profiles.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked conversations: %w", err)
	}

	records := []domain.SessionRecord{}
	for _, p := range profiles {
		recent, err := s.sessions.ListByConversation(ctx, p.ConversationID, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		for _, rec := range recent {
			if rec.AccountID != nil && *rec.AccountID != accountID {
				continue
			}
			records = append(records, rec)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}
