// Package provider holds helpers shared by the provider backends.
package provider

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	lab "github.com/BrenchCC/LLM-Lab"
)

// CategorizeStatusCode determines the error category from an HTTP status code.
func CategorizeStatusCode(code int) lab.ErrorCategory {
	switch {
	case code == 429:
		return lab.ErrorTransient // Rate limited
	case code >= 500 && code < 600:
		return lab.ErrorTransient // Server error
	case code == 401 || code == 403:
		return lab.ErrorPermanent // Authentication/authorization
	case code == 400 || code == 404 || code == 422:
		return lab.ErrorUserInput // Bad request or not found
	default:
		return lab.ErrorPermanent
	}
}

// StatusError wraps a provider API error with its category. The provider's
// own message stays in the cause, so callers that match on error text still
// see it.
func StatusError(name string, code int, retryAfter time.Duration, cause error) error {
	msg := fmt.Sprintf("%s request failed (status %d)", name, code)
	if retryAfter > 0 {
		return lab.NewTransientErrorWithRetry(msg, code, retryAfter, cause)
	}
	switch CategorizeStatusCode(code) {
	case lab.ErrorTransient:
		return lab.NewTransientError(msg, code, cause)
	case lab.ErrorUserInput:
		return lab.NewUserInputError(msg, code, cause)
	default:
		return lab.NewPermanentError(msg, code, cause)
	}
}

// ParseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func ParseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	// Seconds (most common)
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// HTTP-date (RFC 7231)
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}

	return 0
}
