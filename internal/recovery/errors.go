package recovery

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind classifies an error for strategy selection and history reporting.
type Kind string

const (
	KindBackend      Kind = "generation_backend"
	KindValidation   Kind = "validation"
	KindContent      Kind = "generation_content"
	KindTimeout      Kind = "timeout"
	KindDependency   Kind = "missing_dependency"
	KindUnclassified Kind = "unclassified"
)

// BackendError wraps a failed call to a generation backend. Retryable.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ValidationError marks input that is malformed or insufficient. Not
// retryable; the caller must enrich the input first.
type ValidationError struct {
	Reason      string
	Suggestions []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate input: %s", e.Reason)
}

// ContentError marks backend output that is unusable. Retryable with a
// reduced scope.
type ContentError struct {
	Reason string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("unusable generated content: %s", e.Reason)
}

// TimeoutError marks a generation call that exceeded its budget.
type TimeoutError struct {
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("generation timed out after %s", e.Budget)
}

// MissingDependencyError names a component the caller must provision.
type MissingDependencyError struct {
	Component string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency: %s", e.Component)
}

// Classify maps an error to its recovery kind. Deadline errors are treated
// as timeouts even when wrapped by a backend error.
func Classify(err error) Kind {
	var (
		validationErr *ValidationError
		dependencyErr *MissingDependencyError
		contentErr    *ContentError
		timeoutErr    *TimeoutError
		backendErr    *BackendError
	)
	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &dependencyErr):
		return KindDependency
	case errors.As(err, &contentErr):
		return KindContent
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &backendErr):
		return KindBackend
	default:
		return KindUnclassified
	}
}
