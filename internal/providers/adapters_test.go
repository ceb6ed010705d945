package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/valuerank-ai/valuerank/internal/model"
)

// capturedRequest records the headers and decoded JSON body of the last
// request a fake provider server received.
type capturedRequest struct {
	header http.Header
	body   map[string]any
}

func newFakeProvider(t *testing.T, responseJSON string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.header = r.Header.Clone()
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &captured.body))
		w.Write([]byte(responseJSON))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func adapterRequest(modelName string) Request {
	temp := 0.2
	seed := int64(987654321)
	return Request{
		Model: modelName,
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "Rate the tradeoff from 1 to 5."},
		},
		Temperature: &temp,
		MaxTokens:   256,
		Seed:        &seed,
	}
}

const chatCompletionJSON = `{
	"choices": [{"message": {"role": "assistant", "content": "  Rating: 4  "}}],
	"usage": {"prompt_tokens": 20, "completion_tokens": 5, "total_tokens": 25}
}`

func TestOpenAIAdapterPayloadShape(t *testing.T) {
	srv, captured := newFakeProvider(t, chatCompletionJSON)

	a := NewOpenAIAdapter("sk-test", time.Second, zaptest.NewLogger(t))
	a.baseURL = srv.URL

	resp, err := a.Generate(context.Background(), adapterRequest("gpt-4o"))
	require.NoError(t, err)
	assert.Equal(t, "Rating: 4", resp.Content)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 25, resp.Usage.TotalTokens)

	assert.Equal(t, "Bearer sk-test", captured.header.Get("Authorization"))
	assert.Equal(t, "gpt-4o", captured.body["model"])
	assert.Equal(t, float64(256), captured.body["max_completion_tokens"])
	assert.Equal(t, float64(1), captured.body["n"])
	assert.Equal(t, 0.2, captured.body["temperature"])
	assert.Equal(t, float64(987654321), captured.body["seed"])
	assert.NotContains(t, captured.body, "max_tokens")
}

func TestOpenAIAdapterOmitsTemperatureForRestrictedModels(t *testing.T) {
	srv, captured := newFakeProvider(t, chatCompletionJSON)

	a := NewOpenAIAdapter("sk-test", time.Second, zaptest.NewLogger(t))
	a.baseURL = srv.URL

	_, err := a.Generate(context.Background(), adapterRequest("gpt-5-nano-2025"))
	require.NoError(t, err)
	assert.NotContains(t, captured.body, "temperature")
}

func TestOpenAIAdapterMissingKeyFailsBeforeNetwork(t *testing.T) {
	a := NewOpenAIAdapter("", time.Second, zaptest.NewLogger(t))
	a.baseURL = "http://127.0.0.1:1" // must never be dialed

	_, err := a.Generate(context.Background(), adapterRequest("gpt-4o"))
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestAnthropicAdapterPayloadShape(t *testing.T) {
	srv, captured := newFakeProvider(t, `{
		"content": [
			{"type": "text", "text": "I would choose option 2. "},
			{"type": "tool_use", "id": "x"},
			{"type": "text", "text": "Rating: 2"}
		]
	}`)

	a := NewAnthropicAdapter("sk-ant-test", time.Second, zaptest.NewLogger(t))
	a.baseURL = srv.URL

	resp, err := a.Generate(context.Background(), adapterRequest("claude-sonnet-4"))
	require.NoError(t, err)
	assert.Equal(t, "I would choose option 2.\nRating: 2", resp.Content)

	assert.Equal(t, "sk-ant-test", captured.header.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", captured.header.Get("anthropic-version"))
	assert.Equal(t, "claude-sonnet-4", captured.body["model"])
	assert.Equal(t, float64(256), captured.body["max_tokens"])
	meta, ok := captured.body["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(987654321), meta["seed"])
}

func TestAdaptersRejectMissingTokenBudget(t *testing.T) {
	for name, a := range map[string]Adapter{
		"openai":    NewOpenAIAdapter("sk-test", time.Second, zaptest.NewLogger(t)),
		"anthropic": NewAnthropicAdapter("sk-ant-test", time.Second, zaptest.NewLogger(t)),
		"xai":       NewXAIAdapter("xai-test", time.Second, zaptest.NewLogger(t)),
	} {
		t.Run(name, func(t *testing.T) {
			req := adapterRequest("any-model")
			req.MaxTokens = 0
			_, err := a.Generate(context.Background(), req)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestAnthropicAdapterRejectsNonTextualContent(t *testing.T) {
	srv, _ := newFakeProvider(t, `{"content": [{"type": "tool_use", "id": "x"}]}`)

	a := NewAnthropicAdapter("sk-ant-test", time.Second, zaptest.NewLogger(t))
	a.baseURL = srv.URL

	_, err := a.Generate(context.Background(), adapterRequest("claude-sonnet-4"))
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindInvalidResponse, pe.Kind)
}

func TestXAIAdapterPayloadShape(t *testing.T) {
	srv, captured := newFakeProvider(t, chatCompletionJSON)

	a := NewXAIAdapter("xai-test", time.Second, zaptest.NewLogger(t))
	a.baseURL = srv.URL

	resp, err := a.Generate(context.Background(), adapterRequest("grok-3"))
	require.NoError(t, err)
	assert.Equal(t, "Rating: 4", resp.Content)

	assert.Equal(t, "Bearer xai-test", captured.header.Get("Authorization"))
	assert.Equal(t, float64(256), captured.body["max_tokens"])
	assert.NotContains(t, captured.body, "max_completion_tokens")
	assert.Equal(t, float64(987654321), captured.body["seed"])
}

func TestNormalizeXAISeed(t *testing.T) {
	assert.Equal(t, int64(1), normalizeXAISeed(0))
	assert.Equal(t, int64(5), normalizeXAISeed(5))
	assert.Equal(t, int64(1), normalizeXAISeed(maxXAISeed+1))
	assert.Equal(t, int64(maxXAISeed-3), normalizeXAISeed(-3))
	assert.Greater(t, normalizeXAISeed(-1<<62), int64(0))
}

func TestChatCompletionContentMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":      `{"choices": []}`,
		"missing message": `{"choices": [{}]}`,
		"null content":    `{"choices": [{"message": {"content": null}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			var data map[string]any
			require.NoError(t, json.Unmarshal([]byte(body), &data))
			_, err := chatCompletionContent(data, "OpenAI")
			var pe *Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, KindInvalidResponse, pe.Kind)
		})
	}
}
