package providers

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// EnvDefaultProvider overrides the fallback provider used when a model
// name does not map to a registered adapter.
const EnvDefaultProvider = "VALUERANK_DEFAULT_PROVIDER"

// Registry maps provider names to adapters. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	adapters        map[string]Adapter
	defaultProvider string
}

// NewRegistry builds a registry from the environment. The mock adapter is
// always present; real providers register only when their API key is set,
// so a run without credentials still resolves every model.
func NewRegistry(timeout time.Duration, logger *zap.Logger) *Registry {
	r := &Registry{
		adapters:        map[string]Adapter{},
		defaultProvider: os.Getenv(EnvDefaultProvider),
	}
	r.Register(NewMockAdapter())
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		r.Register(NewOpenAIAdapter(key, timeout, logger))
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		r.Register(NewAnthropicAdapter(key, timeout, logger))
	}
	if key := os.Getenv("XAI_API_KEY"); key != "" {
		r.Register(NewXAIAdapter(key, timeout, logger))
	}
	return r
}

// Register adds an adapter under its own name, replacing any previous
// registration. Intended for construction and tests, not concurrent use.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.Name()] = a
}

// Get returns the adapter for an explicit provider name.
func (r *Registry) Get(provider string) (Adapter, error) {
	a, ok := r.adapters[provider]
	if !ok {
		return nil, NewError(KindValidation, fmt.Sprintf("no adapter registered for provider %q", provider), nil)
	}
	return a, nil
}

// Providers returns the registered provider names.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}

// ResolveForModel picks an adapter for a model name. It never fails:
// inferred provider, then the configured default provider, then mock.
func (r *Registry) ResolveForModel(modelName string) Adapter {
	if a, ok := r.adapters[InferProvider(modelName)]; ok {
		return a
	}
	if r.defaultProvider != "" {
		if a, ok := r.adapters[r.defaultProvider]; ok {
			return a
		}
	}
	return r.adapters["mock"]
}

// InferProvider guesses the provider from a model name.
func InferProvider(modelName string) string {
	lowered := strings.ToLower(modelName)
	switch {
	case strings.Contains(lowered, "gpt"), strings.Contains(lowered, "text-"):
		return "openai"
	case strings.Contains(lowered, "claude"):
		return "anthropic"
	case strings.Contains(lowered, "grok"):
		return "xai"
	case strings.Contains(lowered, "gemini"):
		return "google"
	default:
		return "mock"
	}
}
