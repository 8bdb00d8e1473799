package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Rrens/reply-assistant/internal/api"
	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/observability"
	"github.com/Rrens/reply-assistant/internal/repository"
	"github.com/Rrens/reply-assistant/internal/repository/sqlite"
	"github.com/Rrens/reply-assistant/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*api.Router, *config.Config) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	store := repository.NewSQLiteStore(db)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{
		Server:       config.ServerConfig{MiddlewareTimeout: 5 * time.Second},
		Line:         config.LineConfig{ChannelSecret: "secret"},
		LLM:          config.LLMConfig{DefaultProvider: "reply_service"},
		Conversation: config.ConversationConfig{Concurrency: 2},
		Auth:         config.AuthConfig{JWTSecret: "jwt-secret", AccessTokenTTL: time.Hour},
		Metrics:      config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	return api.NewRouter(cfg, store, nil, observability.NewMetrics("test")), cfg
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/health", "/api/v1/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_WebhookRequiresSignature(t *testing.T) {
	r, cfg := newTestRouter(t)
	body := `{"destination":"Ubot","events":[]}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Line-Signature", "bogus")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-Line-Signature", security.Sign(cfg.Line.ChannelSecret, []byte(body)))
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, r.Wait(context.Background()))
}

func TestRouter_PersonsRequireToken(t *testing.T) {
	r, cfg := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/persons", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := security.NewJWTManager(cfg.Auth.JWTSecret, time.Hour).GenerateAccessToken("acc-1", "a@example.com")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/persons", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SessionsRequireToken(t *testing.T) {
	r, cfg := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := security.NewJWTManager(cfg.Auth.JWTSecret, time.Hour).GenerateAccessToken("acc-1", "a@example.com")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
