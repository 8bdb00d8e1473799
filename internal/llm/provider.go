package llm

import (
	"context"
	"errors"
)

// ErrInvalidResponse marks a generation response that could not be parsed
// into a usable reply. Callers fall back instead of failing.
var ErrInvalidResponse = errors.New("invalid generation response")

// Request contains reply generation parameters
type Request struct {
	InputText string
	History   []Example
}

// Example represents an input/reply pair for few-shot learning
type Example struct {
	InputText string `json:"inputText"`
	ReplyText string `json:"replyText"`
}

// Response contains generation result
type Response struct {
	Reply      string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for reply generation backends
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// GenerateReply suggests a reply for the input text
	GenerateReply(ctx context.Context, req Request, model string) (*Response, error)
}
