// Package errors extends the standard "errors" package.
// Errors carry a stack trace, can be nested, collected to a MultiError and formatted as a bullet list.
package errors

import (
	stdErrors "errors"
	"fmt"
)

type withStack struct {
	err   error
	trace StackTrace
}

type wrappedError struct {
	msg   string
	cause error
	trace StackTrace
}

func New(message string) error {
	return &withStack{err: stdErrors.New(message), trace: callers()}
}

// Errorf creates a new error, the "%w" verb is supported.
func Errorf(format string, a ...any) error {
	return &withStack{err: fmt.Errorf(format, a...), trace: callers()} // nolint: goerr113
}

// Wrap sets a new message, the cause is hidden in the standard output, see FormatWithUnwrap.
func Wrap(err error, message string) error {
	return &wrappedError{msg: message, cause: err, trace: callers()}
}

// Wrapf is a formatted version of the Wrap.
func Wrapf(err error, format string, a ...any) error {
	return &wrappedError{msg: fmt.Sprintf(format, a...), cause: err, trace: callers()}
}

// WithStack adds a stack trace to an error from a 3rd party package.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return &withStack{err: err, trace: callers()}
}

func Is(err, target error) bool {
	return stdErrors.Is(err, target)
}

func As(err error, target any) bool {
	return stdErrors.As(err, target)
}

func Unwrap(err error) error {
	return stdErrors.Unwrap(err)
}

func (e *withStack) Error() string {
	return e.err.Error()
}

func (e *withStack) Unwrap() error {
	return e.err
}

func (e *withStack) StackTrace() StackTrace {
	return e.trace
}

func (e *wrappedError) Error() string {
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

func (e *wrappedError) StackTrace() StackTrace {
	return e.trace
}
