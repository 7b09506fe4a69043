// Package types provides shared definitions used across bookkit packages.
// This package exists so that ebook, github, examples and output can report
// the same classes of failure without importing each other.
package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR CLASSES
// =============================================================================

var (
	// ErrMissingPrerequisite means an earlier step has not been run,
	// e.g. no captured output exists yet or a staging asset is missing.
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrInvariant means the authoring tree is in a state the tools never
	// produce themselves. It is fatal and must be fixed by hand.
	ErrInvariant = errors.New("invariant violated")

	// ErrUsage means the command was asked to do something it refuses to do.
	ErrUsage = errors.New("usage error")
)

// MissingPrerequisite wraps ErrMissingPrerequisite with a message.
func MissingPrerequisite(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMissingPrerequisite, fmt.Sprintf(format, args...))
}

// Invariant wraps ErrInvariant with a message.
func Invariant(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

// Usage wraps ErrUsage with a message.
func Usage(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	case errors.Is(err, ErrInvariant):
		return 3
	default:
		return 1
	}
}
