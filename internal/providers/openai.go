package providers

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

const openAIBaseURL = "https://api.openai.com/v1/chat/completions"

// Model prefixes that reject a custom temperature. Requests against
// these models omit the field and use the provider default.
var temperatureDisabledPrefixes = []string{
	"gpt-5-nano",
	"gpt-4o-mini-transcribe",
}

// OpenAIAdapter calls the OpenAI Chat Completions API.
type OpenAIAdapter struct {
	apiKey  string
	baseURL string
	http    *httpClient
	logger  *zap.Logger
}

// NewOpenAIAdapter builds the adapter. An empty apiKey is allowed at
// construction; Generate fails with an auth error before any network call.
func NewOpenAIAdapter(apiKey string, timeout time.Duration, logger *zap.Logger) *OpenAIAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIAdapter{
		apiKey:  apiKey,
		baseURL: openAIBaseURL,
		http:    newHTTPClient(timeout, logger),
		logger:  logger,
	}
}

func (a *OpenAIAdapter) Name() string { return "openai" }

func (a *OpenAIAdapter) Generate(ctx context.Context, req Request) (Response, error) {
	if err := req.Validate(); err != nil {
		return Response{}, err
	}
	if a.apiKey == "" {
		return Response{}, NewError(KindAuth, "OPENAI_API_KEY is not set", nil)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + a.apiKey,
	}
	payload := map[string]any{
		"model":                 req.Model,
		"messages":              req.Messages,
		"max_completion_tokens": req.MaxTokens,
		"n":                     1,
	}
	if req.Temperature != nil {
		if supportsTemperature(req.Model) {
			payload["temperature"] = *req.Temperature
		} else {
			a.logger.Info("model does not support custom temperature, using provider default",
				zap.String("model", req.Model),
			)
		}
	}
	if req.Seed != nil {
		payload["seed"] = *req.Seed
	}
	if req.ResponseFormat != nil {
		payload["response_format"] = req.ResponseFormat
	}

	data, err := a.http.PostJSON(ctx, a.baseURL, headers, payload)
	if err != nil {
		return Response{}, err
	}
	content, err := chatCompletionContent(data, "OpenAI")
	if err != nil {
		return Response{}, err
	}
	return Response{Content: content, Usage: parseUsage(data)}, nil
}

func supportsTemperature(modelName string) bool {
	lowered := strings.ToLower(modelName)
	for _, prefix := range temperatureDisabledPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return false
		}
	}
	return true
}

// chatCompletionContent extracts choices[0].message.content from an
// OpenAI-compatible chat completion response.
func chatCompletionContent(data map[string]any, provider string) (string, error) {
	choices, ok := data["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", NewError(KindInvalidResponse, "unexpected "+provider+" response format", nil)
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", NewError(KindInvalidResponse, "unexpected "+provider+" response format", nil)
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return "", NewError(KindInvalidResponse, "unexpected "+provider+" response format", nil)
	}
	content, ok := message["content"].(string)
	if !ok {
		return "", NewError(KindInvalidResponse, "unexpected "+provider+" response format", nil)
	}
	return strings.TrimSpace(content), nil
}

// parseUsage reads the optional usage block reported by OpenAI-compatible
// APIs. Returns nil when absent or malformed.
func parseUsage(data map[string]any) *Usage {
	raw, ok := data["usage"].(map[string]any)
	if !ok {
		return nil
	}
	asInt := func(key string) int {
		f, ok := raw[key].(float64)
		if !ok {
			return 0
		}
		return int(f)
	}
	return &Usage{
		PromptTokens:     asInt("prompt_tokens"),
		CompletionTokens: asInt("completion_tokens"),
		TotalTokens:      asInt("total_tokens"),
	}
}
