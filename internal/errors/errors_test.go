package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"user aborted is a clean exit", ErrUserAborted, ExitOK},
		{"invalid customer", ErrInvalidCustomer, ExitInvalidInput},
		{"no license found", ErrNoLicenseFound, ExitInvalidInput},
		{"no identifiers", ErrNoIdentifiersFound, ExitNoIdentifiers},
		{"installation failed", ErrInstallationFailed, ExitFailure},
		{"unknown error", stderrors.New("boom"), ExitFailure},
		{"wrapped sentinel", fmt.Errorf("context: %w", ErrNoIdentifiersFound), ExitNoIdentifiers},
		{"cli error overrides mapping", New("E_CUSTOM", 7, stderrors.New("boom")), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestCLIErrorUnwrap(t *testing.T) {
	err := New("E_INSTALL", ExitFailure, fmt.Errorf("copy: %w", ErrInstallationFailed))

	assert.ErrorIs(t, err, ErrInstallationFailed)
	assert.Contains(t, err.Error(), "E_INSTALL")
}
