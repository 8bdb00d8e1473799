package deepseek

import (
	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/llm/openai"
)

const defaultBaseURL = "https://api.deepseek.com/v1"

// NewProvider creates a DeepSeek provider. DeepSeek speaks the OpenAI chat
// completions protocol, so the OpenAI client is reused with its own base URL.
func NewProvider(cfg config.DeepSeekConfig) *openai.Provider {
	model := cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return openai.NewCompatible("deepseek", baseURL, cfg.APIKey, model, []string{
		"deepseek-chat",
		"deepseek-reasoner",
	})
}
