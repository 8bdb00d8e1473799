package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Provider implements llm.Provider for OpenAI and OpenAI-compatible
// chat completion APIs
type Provider struct {
	name         string
	apiKey       string
	defaultModel string
	models       []string
	client       *http.Client
	baseURL      string
}

// NewProvider creates a new OpenAI provider
func NewProvider(cfg config.OpenAIConfig) *Provider {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return NewCompatible("openai", baseURL, cfg.APIKey, model, []string{
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
		"gpt-3.5-turbo",
	})
}

// NewCompatible creates a provider for any API speaking the OpenAI chat
// completions protocol
func NewCompatible(name, baseURL, apiKey, defaultModel string, models []string) *Provider {
	return &Provider{
		name:         name,
		apiKey:       apiKey,
		defaultModel: defaultModel,
		models:       models,
		client:       &http.Client{Timeout: 120 * time.Second},
		baseURL:      baseURL,
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return p.name
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return p.models
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateReply asks the chat completion endpoint for a reply suggestion
func (p *Provider) GenerateReply(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	chatReq := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: llm.SystemPrompt},
			{Role: "user", Content: llm.BuildPrompt(req)},
		},
		Temperature:    0.7,
		MaxTokens:      512,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", p.name, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices from %s", llm.ErrInvalidResponse, p.name)
	}

	reply, err := llm.ParseReply(chatResp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &llm.Response{
		Reply:      reply,
		Model:      model,
		TokensUsed: chatResp.Usage.TotalTokens,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
