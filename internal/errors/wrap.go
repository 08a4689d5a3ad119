package errors

import (
	"errors"
	"fmt"
)

// WrappedError carries an internal cause together with the message the
// API is allowed to show to callers. Module and Operation identify
// where the error was produced.
type WrappedError struct {
	Operation   string
	Module      string
	Cause       error
	UserMessage string
}

func (e *WrappedError) Error() string {
	return fmt.Sprintf("[%s:%s] %s: %v", e.Module, e.Operation, e.UserMessage, e.Cause)
}

func (e *WrappedError) Unwrap() error {
	return e.Cause
}

// ErrorWrapper stamps errors with a fixed module and operation so call
// sites only supply the user-facing message.
type ErrorWrapper struct {
	module    string
	operation string
}

// NewWrapper creates a wrapper for one module/operation pair.
func NewWrapper(module, operation string) *ErrorWrapper {
	return &ErrorWrapper{module: module, operation: operation}
}

// Wrap attaches a user-facing message to err. A nil err passes through.
func (w *ErrorWrapper) Wrap(err error, userMessage string) error {
	if err == nil {
		return nil
	}
	return &WrappedError{
		Operation:   w.operation,
		Module:      w.module,
		Cause:       err,
		UserMessage: userMessage,
	}
}

// Wrapf is Wrap with a formatted user message.
func (w *ErrorWrapper) Wrapf(err error, format string, args ...any) error {
	return w.Wrap(err, fmt.Sprintf(format, args...))
}

// AsWrapped extracts a WrappedError from err's chain.
func AsWrapped(err error) (*WrappedError, bool) {
	var wrapped *WrappedError
	ok := errors.As(err, &wrapped)
	return wrapped, ok
}

// GetUserMessage returns the message err is allowed to show to callers:
// the UserMessage for wrapped errors, the error string otherwise.
func GetUserMessage(err error) string {
	if err == nil {
		return ""
	}
	if wrapped, ok := AsWrapped(err); ok {
		return wrapped.UserMessage
	}
	return err.Error()
}
