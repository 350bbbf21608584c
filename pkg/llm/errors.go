package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the provider-boundary classification of a failed call.
// Providers decide the kind once, from the raw HTTP status and body; callers
// only ever branch on it via IsRateLimited / IsQuotaExhausted.
type ErrorKind string

const (
	// ErrRateLimited means the service throttled this call; retrying after a
	// backoff can succeed.
	ErrRateLimited ErrorKind = "rate_limited"
	// ErrQuotaExhausted means a billing or hard usage limit was hit; no retry
	// of any call can succeed until the account changes.
	ErrQuotaExhausted ErrorKind = "quota_exhausted"
	// ErrOther covers everything else (transport failures, 5xx, bad request).
	ErrOther ErrorKind = "other"
)

// ProviderError carries the classified failure of one provider call.
type ProviderError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("llm provider error (%s, status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("llm provider error (%s): %s", e.Kind, e.Message)
}

// NewProviderError classifies an HTTP failure at the provider boundary.
func NewProviderError(status int, body string) *ProviderError {
	kind := ErrOther
	lower := strings.ToLower(body)
	switch {
	case status == 429 && (strings.Contains(lower, "quota") || strings.Contains(lower, "billing") || strings.Contains(lower, "resource_exhausted")):
		// Some services answer 429 for both throttling and exhausted quota;
		// the body is the only discriminator.
		kind = ErrQuotaExhausted
	case status == 429:
		kind = ErrRateLimited
	case status == 402 || status == 403 && strings.Contains(lower, "quota"):
		kind = ErrQuotaExhausted
	}
	return &ProviderError{Kind: kind, Status: status, Message: body}
}

func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == ErrRateLimited
}

func IsQuotaExhausted(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == ErrQuotaExhausted
}
