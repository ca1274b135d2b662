package service

import "context"

// Service defines the interface for backend operations.
// All HTTP calls go through this interface; state and command code never
// touch the transport directly. Errors returned are normalized
// (*errors.Error from taskwiz/internal/errors).
type Service interface {
	// SignUp creates an account. It does not authenticate.
	SignUp(ctx context.Context, creds Credentials) (User, error)

	// SignIn exchanges credentials for an access token.
	SignIn(ctx context.Context, creds Credentials) (SignInResult, error)

	// ListTasks returns the caller's tasks matching f, in server order.
	ListTasks(ctx context.Context, f Filter) ([]Task, error)

	// GetTask returns one task by ID.
	GetTask(ctx context.Context, id string) (Task, error)

	// CreateTask creates a task; the server assigns ID and initial status.
	CreateTask(ctx context.Context, in NewTask) (Task, error)

	// UpdateTaskStatus sets the status of a task and returns the updated task.
	UpdateTaskStatus(ctx context.Context, id string, status Status) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error
}
