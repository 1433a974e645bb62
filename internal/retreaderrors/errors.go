// Package retreaderrors defines the error kinds used throughout the
// adapter (spec.md §7) and the wrapping helpers used to attach context
// to them without losing the underlying sentinel for errors.Is checks.
package retreaderrors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, one per spec.md §7 category.
var (
	// ErrConfig covers missing/invalid additionalData or an unreadable
	// log file encountered while handling Launch.
	ErrConfig = errors.New("config error")

	// ErrCorpus covers an individual source file that failed to read
	// while building the SourceCorpus. Recoverable: the file is dropped.
	ErrCorpus = errors.New("corpus error")

	// ErrParse covers a log line that does not match log_pattern.
	ErrParse = errors.New("parse error")

	// ErrTransport covers framing or I/O failure on the DAP transport.
	ErrTransport = errors.New("transport error")

	// ErrUnhandledCommand covers a DAP command outside spec.md §4.2's
	// table. Logged, never surfaced as an error response.
	ErrUnhandledCommand = errors.New("unhandled command")
)

// Wrap attaches msg as context to err, preserving err for errors.Is/As.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
