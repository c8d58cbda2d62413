package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the schedexec library

var (
	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrPoolStopped indicates that a task was submitted to a worker pool
	// that has begun shutting down
	ErrPoolStopped = errors.New("worker pool stopped")

	// ErrExecutorStopped indicates that a scheduling call was made after
	// the scheduler began shutting down
	ErrExecutorStopped = errors.New("executor stopped")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")
)

// ValidationError describes a rejected argument or configuration field.
// It matches ErrInvalidConfiguration with errors.Is.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for module.field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap lets errors.Is(err, ErrInvalidConfiguration) succeed.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError records which operation of which module failed.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches free-form context and returns the same error.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// PanicError wraps a value recovered from a panicking task together with
// the goroutine stack at the point of recovery.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Unwrap returns the recovered value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsStopped returns true if the error indicates the target component no
// longer accepts work
func IsStopped(err error) bool {
	return errors.Is(err, ErrPoolStopped) || errors.Is(err, ErrExecutorStopped)
}

// IsValidationError returns true if err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsPanic returns true if err is or wraps a *PanicError
func IsPanic(err error) bool {
	var perr *PanicError
	return errors.As(err, &perr)
}
