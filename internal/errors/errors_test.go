package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "recipe not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
	if got := err.Error(); got != "[NOT_FOUND] recipe not found" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, "list recipes", cause)

	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
	if got := err.Error(); got != "[NETWORK] list recipes: connection refused" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestWrapContextCanceled(t *testing.T) {
	err := Wrap(ErrCodeCanceled, "delete recipe", context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Error("expected context.Canceled in chain")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"structured", New(ErrCodeDecode, "bad json"), ErrCodeDecode},
		{"wrapped structured", fmt.Errorf("outer: %w", New(ErrCodeNotEditing, "x")), ErrCodeNotEditing},
		{"plain", errors.New("boom"), ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogAttrs(t *testing.T) {
	if LogAttrs(nil) != nil {
		t.Error("expected nil attrs for nil error")
	}

	err := NewWithContext(ErrCodeUnexpectedStatus, "update recipe", map[string]any{"status": 500})
	attrs := LogAttrs(err)
	kv := map[any]any{}
	for i := 0; i+1 < len(attrs); i += 2 {
		kv[attrs[i]] = attrs[i+1]
	}
	if kv["code"] != "UNEXPECTED_STATUS" {
		t.Errorf("code attr = %v", kv["code"])
	}
	if kv["status"] != 500 {
		t.Errorf("status attr = %v", kv["status"])
	}
}
