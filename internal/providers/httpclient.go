package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout    = 60 * time.Second
	maxNetworkRetries = 3
	baseBackoff       = 2 * time.Second

	// Error bodies are truncated to this length before logging or
	// embedding in error messages.
	bodySnippetLen = 500
)

// Fixed backoff schedule for rate-limit retries, indexed by attempt.
// Its length is the rate-limit retry budget.
var rateLimitBackoff = []time.Duration{
	30 * time.Second,
	60 * time.Second,
	90 * time.Second,
	120 * time.Second,
}

// httpClient issues POST-JSON calls with two independent retry tracks:
// one for network errors and timeouts, one for rate limiting. A request
// may consume its full rate-limit budget even after spending part of the
// network budget.
type httpClient struct {
	client *http.Client
	logger *zap.Logger
	// sleep is swappable so tests can assert on backoff without waiting.
	sleep func(time.Duration)
}

func newHTTPClient(timeout time.Duration, logger *zap.Logger) *httpClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpClient{
		client: &http.Client{Timeout: timeout},
		logger: logger,
		sleep:  time.Sleep,
	}
}

// PostJSON sends payload to url and decodes the JSON response body.
// Billing exhaustion fails fast: quota will not replenish mid-run, so
// retrying only burns the budget of every other request in the pool.
func (c *httpClient) PostJSON(ctx context.Context, rawURL string, headers map[string]string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, NewError(KindValidation, "marshal request payload", err)
	}

	networkAttempts := 0
	rateLimitAttempts := 0

	for networkAttempts < maxNetworkRetries && rateLimitAttempts <= len(rateLimitBackoff) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
		if err != nil {
			return nil, NewError(KindValidation, "build request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			networkAttempts++
			kind, msg := classifyTransportError(err)
			if networkAttempts < maxNetworkRetries {
				wait := baseBackoff * time.Duration(networkAttempts)
				c.logger.Warn("request failed, retrying",
					zap.String("url", rawURL),
					zap.Int("attempt", networkAttempts),
					zap.Duration("backoff", wait),
					zap.Error(err),
				)
				c.sleep(wait)
				continue
			}
			return nil, NewError(kind, msg, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, NewError(KindNetwork, "read response body", readErr)
		}

		if resp.StatusCode >= 400 {
			snippet := truncate(string(respBody), bodySnippetLen)

			if IsBillingExhausted(resp.StatusCode, snippet) {
				return nil, &Error{
					Kind:    KindAuth,
					Message: "billing or quota exhausted: " + snippet,
					Status:  resp.StatusCode,
				}
			}

			if IsRateLimited(resp.StatusCode, snippet) {
				if rateLimitAttempts < len(rateLimitBackoff) {
					wait := rateLimitBackoff[rateLimitAttempts]
					c.logger.Warn("rate limited, retrying with backoff",
						zap.String("url", rawURL),
						zap.Int("attempt", rateLimitAttempts+1),
						zap.Int("max_attempts", len(rateLimitBackoff)),
						zap.Duration("backoff", wait),
						zap.Int("status", resp.StatusCode),
					)
					rateLimitAttempts++
					c.sleep(wait)
					continue
				}
				return nil, &Error{
					Kind:    KindRateLimited,
					Message: fmt.Sprintf("rate limited after %d retries", len(rateLimitBackoff)),
					Status:  resp.StatusCode,
				}
			}

			return nil, &Error{
				Kind:    KindUnknown,
				Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, snippet),
				Status:  resp.StatusCode,
			}
		}

		var decoded map[string]any
		if err := json.Unmarshal(respBody, &decoded); err != nil {
			return nil, NewError(KindInvalidResponse, "decode JSON response", err)
		}
		return decoded, nil
	}

	// Unreachable given the loop conditions, kept as a guard.
	return nil, NewError(KindNetwork, fmt.Sprintf("failed after %d attempts", maxNetworkRetries+len(rateLimitBackoff)), nil)
}

// classifyTransportError separates timeouts from other transport
// failures so callers see the precise retryable kind.
func classifyTransportError(err error) (kind, message string) {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return KindTimeout, "request timed out"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout, "request timed out"
	}
	return KindNetwork, "connection error"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
