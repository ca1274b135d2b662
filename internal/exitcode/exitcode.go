// Package exitcode defines exit codes for the CLI.
package exitcode

import "taskwiz/internal/errors"

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, not found).
	UserError = 1

	// AuthError indicates there is no usable session.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError maps an error to the exit code the CLI reports for it.
func FromError(err error) int {
	switch errors.KindOf(err) {
	case errors.KindValidation, errors.KindNotFound, errors.KindConflict:
		return UserError
	case errors.KindUnauthenticated:
		return AuthError
	default:
		if err == nil {
			return Success
		}
		return BackendError
	}
}
