package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/domain"
)

const (
	maxMessagesPerReply = 5
	maxQuickReplyItems  = 13
	maxLabelRunes       = 20
)

// Client sends replies through the Messaging API
type Client struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

// NewClient creates a new Messaging API client
func NewClient(cfg config.LineConfig) *Client {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = "https://api.line.me"
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: cfg.ChannelAccessToken,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

type textMessage struct {
	Type       string      `json:"type"`
	Text       string      `json:"text"`
	QuickReply *quickReply `json:"quickReply,omitempty"`
}

type quickReply struct {
	Items []quickReplyItem `json:"items"`
}

type quickReplyItem struct {
	Type   string        `json:"type"`
	Action messageAction `json:"action"`
}

type messageAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Reply answers an event using its reply token
func (c *Client) Reply(ctx context.Context, replyToken string, messages []domain.OutboundMessage) error {
	if replyToken == "" || len(messages) == 0 {
		return nil
	}
	if len(messages) > maxMessagesPerReply {
		messages = messages[:maxMessagesPerReply]
	}

	req := replyRequest{ReplyToken: replyToken}
	for _, m := range messages {
		req.Messages = append(req.Messages, toTextMessage(m))
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/bot/message/reply", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("reply request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("messaging api returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

func toTextMessage(m domain.OutboundMessage) textMessage {
	msg := textMessage{Type: "text", Text: m.Text}
	if len(m.QuickReplies) == 0 {
		return msg
	}

	options := m.QuickReplies
	if len(options) > maxQuickReplyItems {
		options = options[:maxQuickReplyItems]
	}
	msg.QuickReply = &quickReply{}
	for _, qr := range options {
		msg.QuickReply.Items = append(msg.QuickReply.Items, quickReplyItem{
			Type: "action",
			Action: messageAction{
				Type:  "message",
				Label: truncateRunes(qr.Label, maxLabelRunes),
				Text:  qr.Value,
			},
		})
	}
	return msg
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
