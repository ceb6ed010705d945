package providers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const xaiBaseURL = "https://api.x.ai/v1/chat/completions"

// maxXAISeed is the largest seed the xAI API accepts (int32 range).
const maxXAISeed = int64(1<<31 - 1)

// XAIAdapter calls the xAI chat completions API, which mirrors the
// OpenAI wire format.
type XAIAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
}

func NewXAIAdapter(apiKey string, timeout time.Duration, logger *zap.Logger) *XAIAdapter {
	return &XAIAdapter{
		apiKey:  apiKey,
		baseURL: xaiBaseURL,
		http:    newHTTPClient(timeout, logger),
	}
}

func (a *XAIAdapter) Name() string { return "xai" }

func (a *XAIAdapter) Generate(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	if a.apiKey == "" {
		return Response{}, NewError(KindAuth, "XAI_API_KEY is not set", nil)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + a.apiKey,
	}
	payload := map[string]any{
		"model":      req.Model,
		"messages":   req.Messages,
		"max_tokens": req.MaxTokens,
	}
	if req.Temperature != nil {
		payload["temperature"] = *req.Temperature
	}
	if req.Seed != nil {
		payload["seed"] = normalizeXAISeed(*req.Seed)
	}
	if req.ResponseFormat != nil {
		payload["response_format"] = req.ResponseFormat
	}

	data, err := a.http.PostJSON(ctx, a.baseURL, headers, payload)
	if err != nil {
		return Response{}, err
	}
	content, err := chatCompletionContent(data, "xAI")
	if err != nil {
		return Response{}, err
	}
	return Response{Content: content, Usage: parseUsage(data)}, nil
}

// normalizeXAISeed folds an arbitrary seed into the positive int32 range
// the API accepts.
func normalizeXAISeed(seed int64) int64 {
	safe := seed % maxXAISeed
	if safe < 0 {
		safe += maxXAISeed
	}
	if safe == 0 {
		safe = 1
	}
	return safe
}
