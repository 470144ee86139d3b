package main

import (
	"errors"
	"os"

	c2md "github.com/alnah/go-c2md"
	"github.com/alnah/go-c2md/internal/assets"
	"github.com/alnah/go-c2md/internal/config"
)

// Exit codes for the c2md CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful transcription
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or validation
	ExitIO         = 3 // File not found, permission denied, fetch failure
	ExitBrowser    = 4 // Browser/Chrome errors
	ExitNotWorkout = 5 // Address is not a workout page
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, c2md.ErrNotWorkoutPage) {
		return ExitNotWorkout
	}

	// Browser errors (exit 4)
	if errors.Is(err, c2md.ErrBrowserConnect) ||
		errors.Is(err, c2md.ErrPageCreate) ||
		errors.Is(err, c2md.ErrPageLoad) ||
		errors.Is(err, c2md.ErrInjection) ||
		errors.Is(err, c2md.ErrNoActionsAnchor) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, c2md.ErrPageFetch) ||
		errors.Is(err, c2md.ErrEmptyHTML) ||
		errors.Is(err, c2md.ErrClipboardUnavailable) ||
		errors.Is(err, ErrReadPage) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, c2md.ErrInvalidHost) ||
		errors.Is(err, c2md.ErrMissingInput) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrMissingPageURL) ||
		errors.Is(err, ErrCopyMultiple) ||
		errors.Is(err, ErrClipboardDisabled) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
