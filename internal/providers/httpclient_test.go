package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// newTestClient returns a client whose sleeps are recorded instead of
// executed, so backoff schedules can be asserted without waiting.
func newTestClient(t *testing.T) (*httpClient, *[]time.Duration) {
	t.Helper()
	var sleeps []time.Duration
	c := newHTTPClient(5*time.Second, zaptest.NewLogger(t))
	c.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return c, &sleeps
}

func TestPostJSONSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id": "resp-1", "choices": []}`))
	}))
	defer srv.Close()

	c, sleeps := newTestClient(t)
	data, err := c.PostJSON(context.Background(), srv.URL, map[string]string{"Authorization": "Bearer sk-test"}, map[string]any{"model": "m"})
	require.NoError(t, err)
	assert.Equal(t, "resp-1", data["id"])
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Empty(t, *sleeps)
}

func TestPostJSONNetworkRetryExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // every dial now fails

	c, sleeps := newTestClient(t)
	_, err := c.PostJSON(context.Background(), url, nil, map[string]any{})
	require.Error(t, err)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindNetwork, pe.Kind)
	assert.True(t, Retryable(err))

	// Two retries after the first failure, with linearly growing waits.
	require.Len(t, *sleeps, 2)
	assert.Equal(t, 2*time.Second, (*sleeps)[0])
	assert.Equal(t, 4*time.Second, (*sleeps)[1])
}

func TestPostJSONRateLimitSchedule(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "slow down"}`))
	}))
	defer srv.Close()

	c, sleeps := newTestClient(t)
	_, err := c.PostJSON(context.Background(), srv.URL, nil, map[string]any{})
	require.Error(t, err)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindRateLimited, pe.Kind)
	assert.Equal(t, http.StatusTooManyRequests, pe.Status)

	// Initial call plus one per backoff slot.
	assert.Equal(t, 5, calls)
	assert.Equal(t, []time.Duration{
		30 * time.Second, 60 * time.Second, 90 * time.Second, 120 * time.Second,
	}, *sleeps)
}

func TestPostJSONRateLimitThenSuccess(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c, sleeps := newTestClient(t)
	data, err := c.PostJSON(context.Background(), srv.URL, nil, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, true, data["ok"])
	assert.Equal(t, []time.Duration{30 * time.Second, 60 * time.Second}, *sleeps)
}

func TestPostJSONBillingFailsFast(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": "insufficient_quota", "message": "You exceeded your current quota"}}`))
	}))
	defer srv.Close()

	c, sleeps := newTestClient(t)
	_, err := c.PostJSON(context.Background(), srv.URL, nil, map[string]any{})
	require.Error(t, err)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindAuth, pe.Kind)
	assert.False(t, Retryable(err))
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
}

func TestPostJSONGenericHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t)
	_, err := c.PostJSON(context.Background(), srv.URL, nil, map[string]any{})

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindUnknown, pe.Kind)
	assert.Equal(t, http.StatusInternalServerError, pe.Status)
	assert.Contains(t, pe.Message, "HTTP 500")
	assert.Contains(t, pe.Message, "boom")
}

func TestPostJSONErrorBodyTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	c, _ := newTestClient(t)
	_, err := c.PostJSON(context.Background(), srv.URL, nil, map[string]any{})

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.LessOrEqual(t, len(pe.Message), bodySnippetLen+len("HTTP 400: "))
}

func TestPostJSONInvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t)
	_, err := c.PostJSON(context.Background(), srv.URL, nil, map[string]any{})

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindInvalidResponse, pe.Kind)
}
