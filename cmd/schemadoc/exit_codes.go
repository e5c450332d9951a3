package main

import (
	"errors"
	"os"

	schemadoc "github.com/alnah/go-schemadoc"
	"github.com/alnah/go-schemadoc/internal/config"
	"github.com/alnah/go-schemadoc/internal/watch"
	"github.com/bmatcuk/doublestar/v4"
)

// Exit codes for the schemadoc CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All files processed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadHTML) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, watch.ErrWatchLimit) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrMissingField) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, schemadoc.ErrInvalidPrefix) ||
		errors.Is(err, schemadoc.ErrInvalidAssetPath) ||
		errors.Is(err, schemadoc.ErrStyleNotFound) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, doublestar.ErrBadPattern) {
		return ExitUsage
	}

	return ExitGeneral
}
