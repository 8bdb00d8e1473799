package line_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/line"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Reply(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/reply", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := line.NewClient(config.LineConfig{APIBaseURL: srv.URL, ChannelAccessToken: "token"})
	err := c.Reply(context.Background(), "r1", []domain.OutboundMessage{
		{
			Text: "pick one",
			QuickReplies: []domain.QuickReply{
				{Label: "A very long person name that exceeds", Value: "select:1"},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "r1", got["replyToken"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 1)

	msg := messages[0].(map[string]any)
	assert.Equal(t, "text", msg["type"])
	assert.Equal(t, "pick one", msg["text"])

	items := msg["quickReply"].(map[string]any)["items"].([]any)
	require.Len(t, items, 1)
	action := items[0].(map[string]any)["action"].(map[string]any)
	assert.Equal(t, "message", action["type"])
	assert.Equal(t, "A very long person n", action["label"])
	assert.Equal(t, "select:1", action["text"])
}

func TestClient_Reply_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid reply token"}`))
	}))
	defer srv.Close()

	c := line.NewClient(config.LineConfig{APIBaseURL: srv.URL, ChannelAccessToken: "token"})
	err := c.Reply(context.Background(), "r1", []domain.OutboundMessage{domain.TextMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid reply token")
}

func TestClient_Reply_NoToken(t *testing.T) {
	c := line.NewClient(config.LineConfig{APIBaseURL: "http://127.0.0.1:0"})
	assert.NoError(t, c.Reply(context.Background(), "", []domain.OutboundMessage{domain.TextMessage("hi")}))
}
