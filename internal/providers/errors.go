package providers

import "errors"

// Error kind constants. Adapters map every failure to one of these so the
// orchestrator can choose degrade-vs-abort without string matching.
const (
	KindValidation      = "validation"
	KindNetwork         = "network"
	KindTimeout         = "timeout"
	KindRateLimited     = "rate_limited"
	KindAuth            = "auth"
	KindInvalidResponse = "invalid_response"
	KindUnknown         = "unknown"
)

// Error is a typed failure from an adapter or the HTTP layer beneath it.
type Error struct {
	Kind    string // One of the Kind* constants.
	Message string // Human-readable description.
	Status  int    // HTTP status code when one was received, else 0.
	Err     error  // Underlying error (may be nil).
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a typed provider error.
func NewError(kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsAuthError reports whether err is a credential or billing failure.
func IsAuthError(err error) bool {
	return hasKind(err, KindAuth)
}

// IsRateLimitError reports whether err is a rate-limit failure.
func IsRateLimitError(err error) bool {
	return hasKind(err, KindRateLimited)
}

// IsTimeoutError reports whether err is a timeout.
func IsTimeoutError(err error) bool {
	return hasKind(err, KindTimeout)
}

// IsValidation reports whether err is a malformed-input failure.
func IsValidation(err error) bool {
	return hasKind(err, KindValidation)
}

// Retryable reports whether the error is transient and the call may
// succeed if issued again. Auth errors cover billing exhaustion, which
// will not self-resolve within a run, so they are never retryable.
func Retryable(err error) bool {
	return hasKind(err, KindNetwork) || hasKind(err, KindTimeout) ||
		hasKind(err, KindRateLimited) || hasKind(err, KindUnknown)
}

func hasKind(err error, kind string) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}
