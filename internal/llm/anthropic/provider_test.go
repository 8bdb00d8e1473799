package anthropic_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/llm"
	"github.com/Rrens/reply-assistant/internal/llm/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_GenerateReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"reply\":\"thanks!\"}"}],"usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	p := anthropic.NewProvider(config.AnthropicConfig{APIKey: "key", BaseURL: srv.URL})
	resp, err := p.GenerateReply(context.Background(), llm.Request{InputText: "gift"}, "")
	require.NoError(t, err)

	assert.Equal(t, "thanks!", resp.Reply)
	assert.Equal(t, 7, resp.TokensUsed)
}

func TestProvider_GenerateReply_NotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"thanks!"}]}`))
	}))
	defer srv.Close()

	p := anthropic.NewProvider(config.AnthropicConfig{APIKey: "key", BaseURL: srv.URL})
	_, err := p.GenerateReply(context.Background(), llm.Request{InputText: "gift"}, "")
	assert.ErrorIs(t, err, llm.ErrInvalidResponse)
}
