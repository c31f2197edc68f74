package utils

import (
	"context"
	"fmt"
	"time"
)

// RetryHandler retries recoverable failures with a linearly growing delay
type RetryHandler struct {
	maxAttempts int
	baseDelay   time.Duration
}

// NewRetryHandler creates a handler that makes at most maxAttempts calls
func NewRetryHandler(maxAttempts int, baseDelay time.Duration) *RetryHandler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryHandler{maxAttempts: maxAttempts, baseDelay: baseDelay}
}

// Do calls fn until it succeeds, fails with a non-recoverable error, the
// attempts run out or ctx is done
func (h *RetryHandler) Do(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !h.IsRetryable(err) {
			return err
		}
		if attempt == h.maxAttempts {
			break
		}

		if h.baseDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(h.baseDelay * time.Duration(attempt)):
			}
		}
	}

	return WrapError(lastErr, "", fmt.Sprintf("operation failed after %d attempts", h.maxAttempts))
}

// IsRetryable reports whether another attempt could succeed
func (h *RetryHandler) IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch GetErrorType(err) {
	case ErrorTypeValidation, ErrorTypePermission, ErrorTypeNotFound, ErrorTypeConfiguration:
		return false
	}
	return IsRecoverable(err)
}

// WithRetry executes a function with retry logic for recoverable errors
func WithRetry(fn func() error, maxAttempts int) error {
	return NewRetryHandler(maxAttempts, 0).Do(context.Background(), fn)
}
