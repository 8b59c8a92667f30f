package analyses

import (
	"fmt"
	"time"
)

// RateLimitedError means the client spent its window budget. The caller can
// retry after ResetTime.
type RateLimitedError struct {
	ResetTime time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetTime.Format(time.RFC3339))
}

// ValidationError rejects a submission before the model is called.
// TooLarge distinguishes oversized payloads from other bad input.
type ValidationError struct {
	Field    string
	Reason   string
	TooLarge bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExtractionError means the model reply carried no usable structured data.
type ExtractionError struct {
	Reason string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Cause)
	}
	return e.Reason
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// StoreIOError wraps a failure of the backing log.
type StoreIOError struct {
	Op    string
	Cause error
}

func (e *StoreIOError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Cause)
}

func (e *StoreIOError) Unwrap() error { return e.Cause }
