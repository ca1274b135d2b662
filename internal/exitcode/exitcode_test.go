package exitcode

import (
	"fmt"
	"testing"

	"taskwiz/internal/errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"validation", errors.Validation(errors.FieldError{Field: "title", Message: "Title is required"}), UserError},
		{"not found", errors.NotFound("task", "x"), UserError},
		{"conflict", &errors.Error{Kind: errors.KindConflict}, UserError},
		{"unauthenticated", errors.Unauthenticated("no"), AuthError},
		{"wrapped unauthenticated", fmt.Errorf("list: %w", errors.Unauthenticated("no")), AuthError},
		{"server", &errors.Error{Kind: errors.KindServer, Status: 500}, BackendError},
		{"network", errors.Network("down", nil), BackendError},
		{"plain", fmt.Errorf("boom"), BackendError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromError(tt.err); got != tt.want {
				t.Errorf("FromError() = %d, want %d", got, tt.want)
			}
		})
	}
}
