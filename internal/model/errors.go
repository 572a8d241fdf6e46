package model

import (
	"errors"
	"fmt"
)

// BuildError is an expected, user-facing build failure: a missing environment
// variable, a known toolchain misconfiguration, an artifact that was not
// produced. The CLI renders only its message; anything that is not a
// BuildError is treated as an internal error and rendered with its full
// chain.
type BuildError struct {
	// Message is the short, actionable description shown to the user.
	Message string
	// Output is the captured stdout/stderr of the failing tool, when one was
	// involved.
	Output string
	// ExitCode is the failing process exit code, or -1 when no process was
	// involved.
	ExitCode int

	cause error
}

// NewBuildError creates a BuildError with no associated process.
func NewBuildError(format string, args ...any) *BuildError {
	return &BuildError{Message: fmt.Sprintf(format, args...), ExitCode: -1}
}

// WrapBuildError attaches a cause to a new BuildError so the chain stays
// inspectable with errors.Is/As.
func WrapBuildError(cause error, format string, args ...any) *BuildError {
	return &BuildError{Message: fmt.Sprintf(format, args...), ExitCode: -1, cause: cause}
}

// WithOutput returns a copy of the error carrying captured tool output and
// exit code.
func (e *BuildError) WithOutput(output string, exitCode int) *BuildError {
	dup := *e
	dup.Output = output
	dup.ExitCode = exitCode
	return &dup
}

func (e *BuildError) Error() string { return e.Message }

func (e *BuildError) Unwrap() error { return e.cause }

// AsBuildError reports whether err (or anything it wraps) is a BuildError.
func AsBuildError(err error) (*BuildError, bool) {
	var be *BuildError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
