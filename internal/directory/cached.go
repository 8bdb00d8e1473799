package directory

import (
	"context"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

// AccountCache stores positive directory lookups
type AccountCache interface {
	Get(ctx context.Context, email string) (*domain.Account, error)
	Set(ctx context.Context, email string, account *domain.Account) error
}

// Cached fronts a directory with a lookup cache. Misses are never cached,
// so a user who registers after a failed attempt is found on the next try.
type Cached struct {
	next  domain.AccountDirectory
	cache AccountCache
}

// NewCached wraps next with cache
func NewCached(next domain.AccountDirectory, cache AccountCache) *Cached {
	return &Cached{next: next, cache: cache}
}

// FindByEmail consults the cache before the directory
func (c *Cached) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := c.cache.Get(ctx, email)
	if err != nil {
		log.Warn().Err(err).Msg("account cache read failed")
	}
	if account != nil && account.Email == email {
		return account, nil
	}

	account, err = c.next.FindByEmail(ctx, email)
	if err != nil || account == nil {
		return account, err
	}

	if err := c.cache.Set(ctx, email, account); err != nil {
		log.Warn().Err(err).Msg("account cache write failed")
	}
	return account, nil
}
