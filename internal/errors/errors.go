// Package errors defines the operator-facing error taxonomy for the
// license client. All errors are terminal for the current invocation;
// there is no retry logic anywhere in the client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the collector and installer flows.
var (
	// Collector
	ErrInvalidCustomer    = errors.New("customer label is required")
	ErrNoIdentifiersFound = errors.New("no hardware identifiers available on this host")

	// Installer
	ErrNoLicenseFound     = errors.New("no installable license file found")
	ErrUserAborted        = errors.New("installation declined by operator")
	ErrInstallationFailed = errors.New("license installation failed")
)

// Process exit codes. A declined installation is a clean exit: the operator
// answered, the tool did what it was told.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitInvalidInput  = 2
	ExitNoIdentifiers = 3
)

// CLIError pairs an underlying error with a short machine-readable code and
// the process exit status main() should use.
type CLIError struct {
	Code     string
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// New creates a CLIError wrapping err.
func New(code string, exitCode int, err error) *CLIError {
	return &CLIError{Code: code, ExitCode: exitCode, Err: err}
}

// ExitCode maps any error to the exit status the process should terminate
// with. nil and a clean operator decline both map to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode
	}
	switch {
	case errors.Is(err, ErrUserAborted):
		return ExitOK
	case errors.Is(err, ErrInvalidCustomer), errors.Is(err, ErrNoLicenseFound):
		return ExitInvalidInput
	case errors.Is(err, ErrNoIdentifiersFound):
		return ExitNoIdentifiers
	default:
		return ExitFailure
	}
}
