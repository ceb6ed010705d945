package providers

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion = "2023-06-01"
)

// AnthropicAdapter calls the Anthropic Messages API.
type AnthropicAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

func NewAnthropicAdapter(apiKey string, timeout time.Duration, logger *zap.Logger) *AnthropicAdapter {
	return &AnthropicAdapter{
		apiKey:  apiKey,
		baseURL: anthropicBaseURL,
		http:    newHTTPClient(timeout, logger),
	}
}

func (a *AnthropicAdapter) Name() string { return "anthropic" }

func (a *AnthropicAdapter) Generate(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	if a.apiKey == "" {
		return Response{}, NewError(KindAuth, "ANTHROPIC_API_KEY is not set", nil)
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicAPIVersion,
	}
	payload := map[string]any{
		"model":      req.Model,
		"max_tokens": req.MaxTokens,
		"messages":   req.Messages,
	}
	if req.Temperature != nil {
		payload["temperature"] = *req.Temperature
	}
	if req.Seed != nil {
		payload["metadata"] = map[string]any{"seed": *req.Seed}
	}
	if req.ResponseFormat != nil {
		payload["response_format"] = req.ResponseFormat
	}

	data, err := a.http.PostJSON(ctx, a.baseURL, headers, payload)
	if err != nil {
		return Response{}, err
	}

	contentList, ok := data["content"].([]any)
	if !ok {
		return Response{}, NewError(KindInvalidResponse, "unexpected Anthropic response format", nil)
	}
	var parts []string
	for _, item := range contentList {
		block, ok := item.(map[string]any)
		if !ok || block["type"] != "text" {
			continue
		}
		if text, ok := block["text"].(string); ok && text != "" {
			parts = append(parts, strings.TrimSpace(text))
		}
	}
	if len(parts) == 0 {
		return Response{}, NewError(KindInvalidResponse, "Anthropic response did not contain textual content", nil)
	}
	return Response{Content: strings.TrimSpace(strings.Join(parts, "\n"))}, nil
}
