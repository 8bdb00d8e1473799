package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/domain"
)

// ErrUnavailable wraps failures to reach or understand the directory
var ErrUnavailable = errors.New("directory unavailable")

// Client looks up registered accounts in the identity provider's directory
type Client struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

// NewClient creates a new directory client
func NewClient(cfg config.DirectoryConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiToken: cfg.APIToken,
		client:   &http.Client{Timeout: timeout},
	}
}

type usersResponse struct {
	Users []struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"users"`
}

// FindByEmail returns the account registered under exactly this email, or
// nil when there is none.
func (c *Client) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	endpoint := c.baseURL + "/users?email=" + url.QueryEscape(email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var users usersResponse
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}

	// The directory may match loosely; only an exact address counts.
	for _, u := range users.Users {
		if u.ID != "" && u.Email == email {
			return &domain.Account{ID: u.ID, Email: u.Email}, nil
		}
	}
	return nil, nil
}
