// Package fault defines the typed errors shared by the orchestration layer.
//
// Every error raised by the session, template, and generation code carries a
// Kind so that callers (and the JSON-RPC surface) can render a specific
// message without string matching. Normalization code never produces faults;
// resolution and generation fail fast on the first violated precondition.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies an orchestration failure.
type Kind string

const (
	// InvalidArgument marks an unrecognized enum value such as an unknown
	// preview mode, quality, or writer mode.
	InvalidArgument Kind = "invalid-argument"

	// NotFound marks a missing file, template, or palette resource.
	NotFound Kind = "not-found"

	// NotReady marks a render or generate request issued before the
	// required prior state (image and template) was set.
	NotReady Kind = "not-ready"

	// ValidationFailed marks an artifact that failed the external format
	// validator or the header compatibility check.
	ValidationFailed Kind = "validation-failed"

	// CountMismatch marks a multi-tile generation whose output count
	// disagrees with the expected grid size.
	CountMismatch Kind = "count-mismatch"

	// EmptyOutput marks a zero-byte artifact or archive.
	EmptyOutput Kind = "empty-output"
)

// Error is a classified orchestration error. Message is human-readable;
// Err optionally wraps an underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from an error chain. Errors that do not carry a
// fault classification report an empty Kind.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
