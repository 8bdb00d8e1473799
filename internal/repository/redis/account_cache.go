package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/redis/go-redis/v9"
)

const accountCachePrefix = "directory:account:"

// AccountCache caches directory lookups keyed by normalized email
type AccountCache struct {
	client *Client
	ttl    time.Duration
}

// NewAccountCache creates a new account cache
func NewAccountCache(client *Client, ttl time.Duration) *AccountCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &AccountCache{client: client, ttl: ttl}
}

func accountKey(email string) string {
	return accountCachePrefix + strings.ToLower(strings.TrimSpace(email))
}

// Get returns the cached account, or nil on a cache miss
func (c *AccountCache) Get(ctx context.Context, email string) (*domain.Account, error) {
	data, err := c.client.rdb.Get(ctx, accountKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached account: %w", err)
	}

	var account domain.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// Set caches an account under its email
func (c *AccountCache) Set(ctx context.Context, email string, account *domain.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	return c.client.rdb.Set(ctx, accountKey(email), data, c.ttl).Err()
}
