package providers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindHelpers(t *testing.T) {
	auth := NewError(KindAuth, "bad key", nil)
	assert.True(t, IsAuthError(auth))
	assert.False(t, IsRateLimitError(auth))
	assert.False(t, Retryable(auth))

	rate := &Error{Kind: KindRateLimited, Message: "throttled", Status: 429}
	assert.True(t, IsRateLimitError(rate))
	assert.True(t, Retryable(rate))

	timeout := NewError(KindTimeout, "request timed out", nil)
	assert.True(t, IsTimeoutError(timeout))
	assert.True(t, Retryable(timeout))

	validation := NewError(KindValidation, "model must not be empty", nil)
	assert.True(t, IsValidation(validation))
	assert.False(t, Retryable(validation))
}

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	inner := NewError(KindNetwork, "connection error", errors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("scenario trolley-1 turn 2: %w", inner)

	assert.True(t, Retryable(wrapped))
	assert.False(t, IsAuthError(wrapped))

	var pe *Error
	assert.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, KindNetwork, pe.Kind)
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := NewError(KindNetwork, "connection error", errors.New("dial tcp: refused"))
	assert.Equal(t, "connection error: dial tcp: refused", err.Error())
	assert.EqualError(t, NewError(KindAuth, "OPENAI_API_KEY is not set", nil), "OPENAI_API_KEY is not set")
}

func TestHelpersOnPlainErrors(t *testing.T) {
	plain := errors.New("something else")
	assert.False(t, IsAuthError(plain))
	assert.False(t, Retryable(plain))
	assert.False(t, IsAuthError(nil))
}
