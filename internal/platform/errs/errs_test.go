package errs

import (
	"errors"
	"fmt"
	"testing"
)

var errRefused = errors.New("connection refused")

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{name: "message only", err: &AppError{Message: "Invalid URL"}, want: "Invalid URL"},
		{name: "with cause", err: &AppError{Message: "backend unreachable", Cause: errRefused}, want: "backend unreachable: connection refused"},
		{name: "message is cause text", err: &AppError{Message: "connection refused", Cause: errRefused}, want: "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", &AppError{Kind: Upstream, Message: "Invalid URL", Cause: errRefused})

	if got := Message(wrapped); got != "Invalid URL" {
		t.Errorf("Message() = %q, want %q", got, "Invalid URL")
	}
	if got := Message(errRefused); got != "connection refused" {
		t.Errorf("Message() = %q, want %q", got, "connection refused")
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q, want empty", got)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", &AppError{Kind: Shape})
	if got := KindOf(wrapped); got != Shape {
		t.Errorf("KindOf() = %v, want %v", got, Shape)
	}
	if got := KindOf(errRefused); got != Unknown {
		t.Errorf("KindOf() = %v, want %v", got, Unknown)
	}
	if got := Timeout.String(); got != "timeout" {
		t.Errorf("Timeout.String() = %q, want %q", got, "timeout")
	}
}
