package providers

import "strings"

// Some providers report throttling through 400/503 bodies instead of 429,
// so classification checks the body text as well as the status code.
var rateLimitPhrases = []string{
	"rate limit",
	"rate_limit",
	"ratelimit",
	"too many requests",
	"requests per minute",
	"rpm limit",
	"tpm limit",
	"tokens per minute",
}

var billingPhrases = []string{
	"insufficient_quota",
	"insufficient quota",
	"insufficient credits",
	"insufficient credit",
	"out of credits",
	"out of funds",
	"out of money",
	"low balance",
	"payment required",
	"billing",
	"hard limit",
	"exceeded your current quota",
	"quota exceeded",
}

// IsRateLimited reports whether an HTTP response indicates throttling.
func IsRateLimited(status int, body string) bool {
	if status == 429 {
		return true
	}
	return containsAny(strings.ToLower(body), rateLimitPhrases)
}

// IsBillingExhausted reports whether an HTTP response indicates the
// provider account is out of credit or quota. Rate-limit markers take
// precedence: transient throttling must never be classified as the fatal
// billing case.
func IsBillingExhausted(status int, body string) bool {
	if status < 400 {
		return false
	}
	lower := strings.ToLower(body)
	if containsAny(lower, rateLimitPhrases) {
		return false
	}
	return containsAny(lower, billingPhrases)
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
