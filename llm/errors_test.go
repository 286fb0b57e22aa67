package llm

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsNotSupported(t *testing.T) {
	err := NewNotSupportedError("image generation")
	if !IsNotSupported(err) {
		t.Error("Expected IsNotSupported to return true for not-supported error")
	}

	regularErr := NewProviderError("some error", nil)
	if IsNotSupported(regularErr) {
		t.Error("Expected IsNotSupported to return false for provider error")
	}

	if IsNotSupported(nil) {
		t.Error("Expected IsNotSupported to return false for nil")
	}
}

func TestIsNotSupportedWrapped(t *testing.T) {
	err := fmt.Errorf("calling provider: %w", NewNotSupportedError("embedding"))
	if !IsNotSupported(err) {
		t.Error("Expected IsNotSupported to see through wrapping")
	}
}

func TestIsRateLimitError(t *testing.T) {
	err := NewRateLimitError("rate limit exceeded", nil, nil)
	if !IsRateLimitError(err) {
		t.Error("Expected IsRateLimitError to return true for rate limit error")
	}

	regularErr := NewProviderError("some error", nil)
	if IsRateLimitError(regularErr) {
		t.Error("Expected IsRateLimitError to return false for non-rate-limit error")
	}
}

func TestIsRetryableError(t *testing.T) {
	retryableErr := NewRateLimitError("rate limit", nil, nil)
	if !IsRetryableError(retryableErr) {
		t.Error("Expected IsRetryableError to return true for retryable error")
	}

	nonRetryableErr := NewInvalidRequestError("bad request", nil)
	if IsRetryableError(nonRetryableErr) {
		t.Error("Expected IsRetryableError to return false for non-retryable error")
	}
}

func TestExtractRetryAfter(t *testing.T) {
	retryAfter := 5 * time.Minute
	err := NewRateLimitError("rate limit", &retryAfter, nil)
	extracted := ExtractRetryAfter(err)
	if extracted == nil {
		t.Fatal("Expected non-nil retry after")
	}
	if *extracted != retryAfter {
		t.Errorf("Expected retry after %v, got %v", retryAfter, *extracted)
	}

	regularErr := NewProviderError("some error", nil)
	if ExtractRetryAfter(regularErr) != nil {
		t.Error("Expected nil retry after for non-rate-limit error")
	}
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewProviderError("backend unreachable", inner)
	if !errors.Is(err, inner) {
		t.Error("Expected errors.Is to find the wrapped provider error")
	}
	if err.Error() != "backend unreachable: connection refused" {
		t.Errorf("Unexpected error string: %s", err.Error())
	}
}
