// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"taskwiz/internal/errors"
	"taskwiz/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Tasks are kept in creation order; filtering follows the backend's rules.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	users  map[string]string // username -> password
	nextID int
	calls  map[string]int

	// Error injection for testing
	SignUpErr           error
	SignInErr           error
	ListTasksErr        error
	GetTaskErr          error
	CreateTaskErr       error
	UpdateTaskStatusErr error
	DeleteTaskErr       error

	// ListTasksFunc, when set, replaces ListTasks entirely.
	ListTasksFunc func(ctx context.Context, f service.Filter) ([]service.Task, error)
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users: make(map[string]string),
		calls: make(map[string]int),
	}
}

// AddTask adds a task with the given ID, title and description in OPEN status.
func (f *FakeService) AddTask(id, title, description string) {
	f.AddTaskWithStatus(id, title, description, service.StatusOpen)
}

// AddTaskWithStatus adds a task with an explicit status.
func (f *FakeService) AddTaskWithStatus(id, title, description string, status service.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      status,
	})
}

// AddUser registers a user.
func (f *FakeService) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// Tasks returns a copy of all stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many times the named method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

// TotalCalls returns the number of backend calls made.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// SignUp implements service.Service.
func (f *FakeService) SignUp(ctx context.Context, creds service.Credentials) (service.User, error) {
	f.record("SignUp")
	if f.SignUpErr != nil {
		return service.User{}, f.SignUpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[creds.Username]; exists {
		return service.User{}, &errors.Error{Kind: errors.KindConflict, Message: "Username already exists", Status: 409}
	}
	f.users[creds.Username] = creds.Password
	return service.User{ID: "user-" + creds.Username, Username: creds.Username}, nil
}

// SignIn implements service.Service.
func (f *FakeService) SignIn(ctx context.Context, creds service.Credentials) (service.SignInResult, error) {
	f.record("SignIn")
	if f.SignInErr != nil {
		return service.SignInResult{}, f.SignInErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pw, ok := f.users[creds.Username]; !ok || pw != creds.Password {
		return service.SignInResult{}, &errors.Error{Kind: errors.KindUnauthenticated, Message: "Please check your login credentials", Status: 401}
	}
	return service.SignInResult{AccessToken: "token-" + creds.Username}, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, filter service.Filter) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksFunc != nil {
		return f.ListTasksFunc(ctx, filter)
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []service.Task{}
	for _, t := range f.tasks {
		if matches(t, filter) {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id string) (service.Task, error) {
	f.record("GetTask")
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, notFound(id)
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.NewTask) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := service.Task{
		ID:          fmt.Sprintf("new-%d", f.nextID),
		Title:       in.Title,
		Description: in.Description,
		Status:      service.StatusOpen,
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTaskStatus implements service.Service.
func (f *FakeService) UpdateTaskStatus(ctx context.Context, id string, status service.Status) (service.Task, error) {
	f.record("UpdateTaskStatus")
	if f.UpdateTaskStatusErr != nil {
		return service.Task{}, f.UpdateTaskStatusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Status = status
			return f.tasks[i], nil
		}
	}
	return service.Task{}, notFound(id)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound(id)
}

func notFound(id string) error {
	return &errors.Error{Kind: errors.KindNotFound, Message: fmt.Sprintf("Task with ID %q not found", id), Status: 404}
}

// ServerError returns a 500-style error without a message, for exercising
// notification fallbacks.
func ServerError() error {
	return &errors.Error{Kind: errors.KindServer, Status: 500}
}

func matches(t service.Task, f service.Filter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	return containsFold(t.Title, f.Search) || containsFold(t.Description, f.Search)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
