// Package errors provides sentinel errors and custom error types for the gitpusher application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Sentinel errors for common conditions
var (
	// ErrNoFiles indicates that a push request carried no files
	ErrNoFiles = errors.New("no files to push")

	// ErrInvalidRepository indicates a missing or malformed owner/name pair
	ErrInvalidRepository = errors.New("invalid repository")

	// ErrValidation indicates that a push request was rejected before any network call
	ErrValidation = errors.New("invalid push request")

	// ErrRefNotFound indicates that the remote has no such branch ref
	ErrRefNotFound = errors.New("ref not found")

	// ErrRefConflict indicates that the ref moved between fetch and update
	ErrRefConflict = errors.New("ref update conflict")

	// ErrRetriesExhausted indicates that a ref update kept conflicting until the retry budget ran out
	ErrRetriesExhausted = errors.New("ref update retries exhausted")
)

// RemoteError represents a non-2xx response from the hosting API
type RemoteError struct {
	Operation string
	Status    int
	Message   string
	Err       error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Operation)
	if e.Status != 0 {
		msg += fmt.Sprintf(": GitHub API error %d", e.Status)
	}
	if e.Message != "" {
		msg += fmt.Sprintf(" - %s", e.Message)
	}
	if e.Status == 0 && e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewRemoteError creates a new RemoteError
func NewRemoteError(operation string, status int, message string, err error) *RemoteError {
	return &RemoteError{
		Operation: operation,
		Status:    status,
		Message:   message,
		Err:       err,
	}
}

// RefNotFoundError represents a branch ref that does not exist on the remote
type RefNotFoundError struct {
	Ref string
}

func (e *RefNotFoundError) Error() string {
	return fmt.Sprintf("ref heads/%s does not exist", e.Ref)
}

// Is returns true if the target error is ErrRefNotFound
func (e *RefNotFoundError) Is(target error) bool {
	return target == ErrRefNotFound
}

// NewRefNotFoundError creates a new RefNotFoundError
func NewRefNotFoundError(ref string) *RefNotFoundError {
	return &RefNotFoundError{Ref: ref}
}

// RefConflictError represents a rejected conditional ref update
type RefConflictError struct {
	Ref     string
	Message string
}

func (e *RefConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ref heads/%s moved during update: %s", e.Ref, e.Message)
	}
	return fmt.Sprintf("ref heads/%s moved during update", e.Ref)
}

// Is returns true if the target error is ErrRefConflict
func (e *RefConflictError) Is(target error) bool {
	return target == ErrRefConflict
}

// NewRefConflictError creates a new RefConflictError
func NewRefConflictError(ref string, message string) *RefConflictError {
	return &RefConflictError{Ref: ref, Message: message}
}

// RefUpdateError represents a ref update that failed permanently
type RefUpdateError struct {
	Ref      string
	Attempts int
	Err      error
}

func (e *RefUpdateError) Error() string {
	return fmt.Sprintf("failed to update ref heads/%s after %d attempt(s): %v", e.Ref, e.Attempts, e.Err)
}

func (e *RefUpdateError) Unwrap() error {
	return e.Err
}

// ValidationError collects every problem found in a push request
type ValidationError struct {
	errs *multierror.Error
}

// NewValidationError creates a ValidationError from the collected problems.
// It returns nil when there are none.
func NewValidationError(problems *multierror.Error) error {
	if problems.ErrorOrNil() == nil {
		return nil
	}
	problems.ErrorFormat = func(es []error) string {
		if len(es) == 1 {
			return es[0].Error()
		}
		msg := fmt.Sprintf("%d problems", len(es))
		for _, e := range es {
			msg += "\n  * " + e.Error()
		}
		return msg
	}
	return &ValidationError{errs: problems}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidation, e.errs.Error())
}

// Is returns true if the target error is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap exposes the individual problems to errors.Is and errors.As
func (e *ValidationError) Unwrap() []error {
	return e.errs.WrappedErrors()
}

// Problems returns the individual validation failures
func (e *ValidationError) Problems() []error {
	return e.errs.WrappedErrors()
}
