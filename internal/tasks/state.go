// Package tasks holds the authoritative in-memory copy of the user's
// tasks and derives the filtered view.
//
// State changes go through Reduce, a pure function of (State, Action).
// Store wraps it with the backend calls for synchronous callers; the
// dashboard feeds the same actions through its own update loop.
package tasks

import (
	"taskwiz/internal/errors"
	"taskwiz/internal/service"
)

// State is the task collection state.
type State struct {
	// Tasks is the collection in display order.
	Tasks []service.Task

	// Loading is true while the newest load is in flight.
	Loading bool

	// Err is the last failure, shown to the user as a notification.
	Err *errors.Error

	// Filters is the active filter criteria.
	Filters service.Filter

	// Seq is the sequence number of the newest load issued.
	Seq uint64
}

// Visible returns the tasks matching the active filters.
func (s State) Visible() []service.Task {
	return Visible(s.Tasks, s.Filters)
}

// Find returns the task with the given ID.
func (s State) Find(id string) (service.Task, bool) {
	if i := indexOf(s.Tasks, id); i >= 0 {
		return s.Tasks[i], true
	}
	return service.Task{}, false
}

// Action is an event applied to State by Reduce.
type Action interface {
	isAction()
}

// LoadStarted marks a load with sequence Seq as in flight.
type LoadStarted struct{ Seq uint64 }

// Loaded carries the result of load Seq.
type Loaded struct {
	Seq   uint64
	Tasks []service.Task
}

// LoadFailed carries the failure of load Seq.
type LoadFailed struct {
	Seq uint64
	Err error
}

// Added carries a newly created task.
type Added struct{ Task service.Task }

// Updated carries the server's representation of a changed task.
type Updated struct{ Task service.Task }

// Removed carries the ID of a deleted task.
type Removed struct{ ID string }

// FiltersChanged merges Patch into the active filters.
type FiltersChanged struct{ Patch FilterPatch }

// Failed records a non-load failure.
type Failed struct{ Err error }

func (LoadStarted) isAction()    {}
func (Loaded) isAction()         {}
func (LoadFailed) isAction()     {}
func (Added) isAction()          {}
func (Updated) isAction()        {}
func (Removed) isAction()        {}
func (FiltersChanged) isAction() {}
func (Failed) isAction()         {}

// Reduce applies a to s and returns the new state. s.Tasks is never
// modified in place, so earlier snapshots stay valid.
//
// Load results whose Seq is older than s.Seq are dropped: when loads
// overlap, only the newest one may write the collection.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadStarted:
		if a.Seq < s.Seq {
			return s
		}
		s.Seq = a.Seq
		s.Loading = true

	case Loaded:
		if a.Seq != s.Seq {
			return s
		}
		s.Tasks = clone(a.Tasks)
		s.Loading = false
		s.Err = nil

	case LoadFailed:
		if a.Seq != s.Seq {
			return s
		}
		s.Loading = false
		s.Err = normalize(a.Err)

	case Added:
		next := make([]service.Task, 0, len(s.Tasks)+1)
		next = append(next, a.Task)
		s.Tasks = append(next, s.Tasks...)

	case Updated:
		i := indexOf(s.Tasks, a.Task.ID)
		if i < 0 {
			return s
		}
		next := clone(s.Tasks)
		next[i] = a.Task
		s.Tasks = next

	case Removed:
		i := indexOf(s.Tasks, a.ID)
		if i < 0 {
			return s
		}
		next := make([]service.Task, 0, len(s.Tasks)-1)
		next = append(next, s.Tasks[:i]...)
		s.Tasks = append(next, s.Tasks[i+1:]...)

	case FiltersChanged:
		s.Filters = a.Patch.Apply(s.Filters)

	case Failed:
		s.Err = normalize(a.Err)
	}
	return s
}

func indexOf(tasks []service.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clone(tasks []service.Task) []service.Task {
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}

func normalize(err error) *errors.Error {
	if err == nil {
		return nil
	}
	var e *errors.Error
	if errors.As(err, &e) {
		return e
	}
	return &errors.Error{Kind: errors.KindUnknown, Message: err.Error(), Err: err}
}
