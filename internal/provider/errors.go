package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// TransientError marks a failure worth retrying: rate limits, server errors,
// timeouts, dropped connections.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError marks a failure that retrying cannot fix: bad credentials,
// malformed requests, unsupported models.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Transient wraps err as retryable. Returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Permanent wraps err as non-retryable. Returns nil for a nil err.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsTransient reports whether err is retryable. Unclassified errors are
// treated as permanent.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// classifyStatus converts a non-OK HTTP status into the error taxonomy.
// 429 and 5xx are transient; everything else is permanent.
func classifyStatus(provider string, status int) error {
	err := fmt.Errorf("%s returned status %d", provider, status)
	if status == http.StatusTooManyRequests || status >= 500 {
		return Transient(err)
	}
	return Permanent(err)
}
