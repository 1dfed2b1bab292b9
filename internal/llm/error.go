package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ProviderError is a non-2xx response from a model provider's API,
// carrying enough structure for callers to distinguish throttling from
// hard failures.
type ProviderError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("provider error (%d %s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("provider error (%d): %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether the provider throttled the request.
func (e *ProviderError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsOverloaded reports whether the provider is shedding load.
func (e *ProviderError) IsOverloaded() bool {
	return e.StatusCode == 529 || e.Type == "overloaded_error"
}

// Retryable reports whether a retry with backoff is worthwhile.
func (e *ProviderError) Retryable() bool {
	return e.IsRateLimited() || e.StatusCode >= 500
}

// readProviderError converts an error response body into a
// ProviderError. Both Anthropic and OpenAI-style APIs wrap errors as
// {"error": {"type": ..., "message": ...}}; bodies that don't match are
// carried verbatim in Message.
func readProviderError(statusCode int, body []byte) *ProviderError {
	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &ProviderError{
			StatusCode: statusCode,
			Type:       envelope.Error.Type,
			Message:    envelope.Error.Message,
		}
	}
	return &ProviderError{
		StatusCode: statusCode,
		Message:    string(body),
	}
}
