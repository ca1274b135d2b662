package tasks

import (
	"context"
	"log/slog"
	"sync"

	"taskwiz/internal/errors"
	"taskwiz/internal/logging"
	"taskwiz/internal/service"
	"taskwiz/internal/validate"
)

// Success notifications.
const (
	MsgCreated       = "Task created successfully"
	MsgStatusUpdated = "Task status updated"
	MsgDeleted       = "Task deleted successfully"
)

// Notification fallbacks, used when the backend gives no message.
const (
	MsgLoadFailed   = "Failed to load tasks"
	MsgGetFailed    = "Failed to load task"
	MsgCreateFailed = "Failed to create task"
	MsgUpdateFailed = "Failed to update task status"
	MsgDeleteFailed = "Failed to delete task"
)

// Store owns the task collection state and performs backend calls.
// It is safe for concurrent use; the lock is not held during requests.
type Store struct {
	svc service.Service
	log *slog.Logger

	mu    sync.Mutex
	state State
}

// NewStore returns an empty Store backed by svc.
func NewStore(svc service.Service, log *slog.Logger) *Store {
	return &Store{
		svc: svc,
		log: logging.OrDiscard(log).With("component", "tasks"),
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Visible returns the tasks matching the active filters.
func (s *Store) Visible() []service.Task {
	return s.State().Visible()
}

// Filters returns the active filter criteria.
func (s *Store) Filters() service.Filter {
	return s.State().Filters
}

func (s *Store) apply(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// Load fetches the tasks matching the current filters and replaces the
// collection. If a newer load was started meanwhile, the response is
// returned but not applied.
func (s *Store) Load(ctx context.Context) ([]service.Task, error) {
	s.mu.Lock()
	seq := s.state.Seq + 1
	s.state = Reduce(s.state, LoadStarted{Seq: seq})
	filters := s.state.Filters
	s.mu.Unlock()

	tasks, err := s.svc.ListTasks(ctx, filters)
	if err != nil {
		err = errors.WithFallback(err, MsgLoadFailed)
		s.apply(LoadFailed{Seq: seq, Err: err})
		return nil, err
	}

	if st := s.apply(Loaded{Seq: seq, Tasks: tasks}); st.Seq != seq {
		s.log.Debug("dropped stale load", "seq", seq, "newest", st.Seq)
	}
	return tasks, nil
}

// SetFilters merges p into the active filters and reloads.
func (s *Store) SetFilters(ctx context.Context, p FilterPatch) ([]service.Task, error) {
	s.apply(FiltersChanged{Patch: p})
	return s.Load(ctx)
}

// Get fetches one task. A locally held copy is refreshed in place.
func (s *Store) Get(ctx context.Context, id string) (service.Task, error) {
	task, err := s.svc.GetTask(ctx, id)
	if err != nil {
		return service.Task{}, s.fail(err, MsgGetFailed)
	}
	s.apply(Updated{Task: task})
	return task, nil
}

// Create validates the input locally, sends it, and puts the created task at the
// head of the collection. Validation failures never reach the backend.
func (s *Store) Create(ctx context.Context, in service.NewTask) (service.Task, error) {
	in, err := validate.NewTask(in)
	if err != nil {
		return service.Task{}, s.fail(err, MsgCreateFailed)
	}

	task, err := s.svc.CreateTask(ctx, in)
	if err != nil {
		return service.Task{}, s.fail(err, MsgCreateFailed)
	}
	s.apply(Added{Task: task})
	return task, nil
}

// UpdateStatus sets the status of task id and replaces the local copy
// with the server's representation. If the task is not held locally the
// local state is left alone and the server result is still returned.
func (s *Store) UpdateStatus(ctx context.Context, id string, status service.Status) (service.Task, error) {
	if err := validate.Status(status); err != nil {
		return service.Task{}, s.fail(err, MsgUpdateFailed)
	}

	task, err := s.svc.UpdateTaskStatus(ctx, id, status)
	if err != nil {
		return service.Task{}, s.fail(err, MsgUpdateFailed)
	}
	s.apply(Updated{Task: task})
	return task, nil
}

// Remove deletes task id and drops it from the collection.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		return s.fail(err, MsgDeleteFailed)
	}
	s.apply(Removed{ID: id})
	return nil
}

func (s *Store) fail(err error, fallback string) error {
	err = errors.WithFallback(err, fallback)
	s.apply(Failed{Err: err})
	return err
}
