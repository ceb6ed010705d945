// Package providers implements the adapter layer that calls heterogeneous
// LLM HTTP APIs under a uniform contract. Each adapter translates a generic
// generation request into a provider-specific payload and normalizes the
// provider's response shape back to plain text.
package providers

import (
	"context"
	"fmt"

	"github.com/valuerank-ai/valuerank/internal/model"
)

// Adapter is the capability interface implemented by every provider
// backend. Implementations must be safe for concurrent use.
type Adapter interface {
	// Name returns the provider identifier ("mock", "openai", ...).
	Name() string

	// Generate produces a completion for the given conversation.
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is the provider-independent generation request.
type Request struct {
	Model       string
	Messages    []model.Message
	Temperature *float64
	MaxTokens   int
	Seed        *int64
	// ResponseFormat is an optional structured-output hint passed through
	// verbatim to providers that accept one.
	ResponseFormat map[string]any
}

// Validate checks request invariants shared by all adapters.
func (r Request) Validate() error {
	if r.Model == "" {
		return NewError(KindValidation, "model must not be empty", nil)
	}
	if len(r.Messages) == 0 {
		return NewError(KindValidation, "messages must not be empty", nil)
	}
	if r.MaxTokens <= 0 {
		return NewError(KindValidation, fmt.Sprintf("max_tokens must be positive, got %d", r.MaxTokens), nil)
	}
	return nil
}

// Usage tracks token consumption when a provider reports it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the normalized generation result. Usage is passed through
// when the provider reports it, never required.
type Response struct {
	Content string
	Usage   *Usage
}
