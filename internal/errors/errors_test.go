package errors

import (
	"fmt"
	"testing"
)

func TestValidation_Aggregates(t *testing.T) {
	err := Validation(
		FieldError{Field: "title", Message: "Title is required"},
		FieldError{Field: "description", Message: "Description must be at least 10 characters"},
	)
	if err == nil {
		t.Fatal("expected error")
	}
	var e *Error
	if !As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Kind != KindValidation {
		t.Errorf("expected KindValidation, got %v", e.Kind)
	}
	if len(e.Fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(e.Fields))
	}
	want := "Title is required; Description must be at least 10 characters"
	if e.Error() != want {
		t.Errorf("expected %q, got %q", want, e.Error())
	}
}

func TestValidation_NoFields(t *testing.T) {
	if err := Validation(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("load: %w", Unauthenticated("not signed in"))
	if !Is(err, ErrUnauthenticated) {
		t.Error("expected wrapped error to match ErrUnauthenticated")
	}
	if Is(err, ErrNotFound) {
		t.Error("did not expect match with ErrNotFound")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain", New("boom"), KindUnknown},
		{"not found", NotFound("task", "x"), KindNotFound},
		{"wrapped network", fmt.Errorf("ctx: %w", Network("request timed out", nil)), KindNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFromStatus(t *testing.T) {
	tests := map[int]Kind{
		400: KindValidation,
		401: KindUnauthenticated,
		403: KindUnauthenticated,
		404: KindNotFound,
		409: KindConflict,
		500: KindServer,
		502: KindServer,
	}
	for status, want := range tests {
		if got := FromStatus(status); got != want {
			t.Errorf("status %d: expected %v, got %v", status, want, got)
		}
	}
}

func TestMessageOf_Fallback(t *testing.T) {
	if got := MessageOf(&Error{Kind: KindServer}, "Failed to load tasks"); got != "Failed to load tasks" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := MessageOf(&Error{Kind: KindServer, Message: "Task not found"}, "Failed"); got != "Task not found" {
		t.Errorf("expected server message, got %q", got)
	}
	if got := MessageOf(New("raw"), ""); got != "raw" {
		t.Errorf("expected raw message, got %q", got)
	}
}

func TestWithFallback(t *testing.T) {
	err := WithFallback(&Error{Kind: KindServer, Status: 500}, "Failed to delete task")
	if err.Error() != "Failed to delete task" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if KindOf(err) != KindServer {
		t.Errorf("expected kind preserved, got %v", KindOf(err))
	}
	if WithFallback(nil, "x") != nil {
		t.Error("expected nil for nil error")
	}
}
