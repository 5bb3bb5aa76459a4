package fault

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(NotFound, "template %q not found", "Canvas_Small")
	want := `not-found: template "Canvas_Small" not found`
	if err.Error() != want {
		t.Errorf("Error(): got %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk exploded")
	err := Wrap(ValidationFailed, cause, "artifact rejected")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !strings.Contains(err.Error(), "disk exploded") {
		t.Errorf("message should include cause, got %q", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct fault", New(CountMismatch, "expected 6, got 5"), CountMismatch},
		{"wrapped fault", fmt.Errorf("outer: %w", New(NotReady, "no image set")), NotReady},
		{"plain error", errors.New("plain"), Kind("")},
		{"nil-safe chain", fmt.Errorf("no fault here"), Kind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := New(EmptyOutput, "generated archive is empty")
	if !IsKind(err, EmptyOutput) {
		t.Error("IsKind should match the error's own kind")
	}
	if IsKind(err, NotFound) {
		t.Error("IsKind should not match a different kind")
	}
}
