// Package apierr provides shared error sentinels and retry infrastructure
// for remote API clients. All provider-specific error types are
// classified into these sentinels at the adapter boundary.
//
// Providers map HTTP status codes to these errors with ClassifyStatus.
// Callers check with errors.Is(err, apierr.ErrRateLimit) etc.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out or the server failed transiently.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise classified.
	ErrBadRequest = errors.New("bad request")

	// ErrContextLength indicates the input exceeded the model's context window.
	ErrContextLength = errors.New("input exceeds model context length")

	// ErrEmptyResponse indicates the API returned no usable content.
	ErrEmptyResponse = errors.New("empty response from API")
)

// ClassifyStatus maps an HTTP status code and provider message to a sentinel.
// The returned error carries message and wraps the sentinel. Unknown status
// codes yield nil, leaving the caller to return the original error.
func ClassifyStatus(status int, message string) error {
	lower := strings.ToLower(message)
	switch status {
	case http.StatusTooManyRequests:
		// Distinguish between temporary rate limit and quota exceeded (billing issue).
		if strings.Contains(lower, "quota") || strings.Contains(lower, "billing") ||
			strings.Contains(lower, "credit") {
			return fmt.Errorf("%s: %w", message, ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", message, ErrRateLimit)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", message, ErrQuotaExceeded)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", message, ErrAuthFailed)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", message, ErrTimeout)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable,
		529: // Anthropic "overloaded"
		return fmt.Errorf("%s: %w", message, ErrTimeout) // Retryable server error
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		if isContextLengthMessage(lower) {
			return fmt.Errorf("%s: %w", message, ErrContextLength)
		}
		return fmt.Errorf("%s: %w", message, ErrBadRequest)
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w", message, ErrBadRequest)
	}
	return nil
}

// ClassifyTransport maps errors raised before any HTTP status was received.
// Deadline errors become ErrTimeout; other errors are returned unchanged.
func ClassifyTransport(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}
	if isContextLengthMessage(strings.ToLower(err.Error())) {
		return fmt.Errorf("API rejected: %w", ErrContextLength)
	}
	return err
}

// IsRetryable reports whether err is worth retrying: rate limits and
// timeouts are; cancellation, auth, quota and request errors are not.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrTimeout)
}

func isContextLengthMessage(lower string) bool {
	return strings.Contains(lower, "context_length") ||
		strings.Contains(lower, "maximum context length") ||
		strings.Contains(lower, "prompt is too long") ||
		strings.Contains(lower, "exceeds the maximum number of tokens")
}
