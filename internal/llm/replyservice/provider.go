package replyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/llm"
)

// Provider implements llm.Provider against the dedicated reply generation
// endpoint, which takes {inputText, history} and answers {reply}.
type Provider struct {
	url    string
	apiKey string
	client *http.Client
}

// NewProvider creates a new reply service provider
func NewProvider(cfg config.ReplyServiceConfig) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Provider{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "reply_service"
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{"default"}
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return "default"
}

// IsConfigured checks if the endpoint is set
func (p *Provider) IsConfigured() bool {
	return p.url != ""
}

type generateRequest struct {
	InputText string        `json:"inputText"`
	History   []llm.Example `json:"history"`
}

type generateResponse struct {
	Reply *string `json:"reply"`
}

// GenerateReply posts the input text and history to the reply service
func (p *Provider) GenerateReply(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	history := req.History
	if history == nil {
		history = []llm.Example{}
	}

	body, err := json.Marshal(generateRequest{InputText: req.InputText, History: history})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reply service returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
	}
	if genResp.Reply == nil || strings.TrimSpace(*genResp.Reply) == "" {
		return nil, fmt.Errorf("%w: missing reply field", llm.ErrInvalidResponse)
	}

	return &llm.Response{
		Reply:     strings.TrimSpace(*genResp.Reply),
		Model:     p.DefaultModel(),
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
