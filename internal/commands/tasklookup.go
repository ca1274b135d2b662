package commands

import (
	"context"
	"fmt"

	"taskwiz/internal/errors"
	"taskwiz/internal/service"
	"taskwiz/internal/tasks"
)

// taskResolver resolves task references against one snapshot of the
// unfiltered list, so several positional refs in a single command all
// refer to the same numbering.
type taskResolver struct {
	store  *tasks.Store
	all    []service.Task
	loaded bool
}

func newTaskResolver(store *tasks.Store) *taskResolver {
	return &taskResolver{store: store}
}

func (r *taskResolver) load(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	all, err := r.store.Load(ctx)
	if err != nil {
		return err
	}
	r.all = all
	r.loaded = true
	return nil
}

// resolve returns the task ref points at. Positional refs use the list
// snapshot; ID refs use it when loaded and otherwise fetch the task.
func (r *taskResolver) resolve(ctx context.Context, ref TaskRef) (service.Task, error) {
	if !ref.IsNum() {
		if r.loaded {
			for _, t := range r.all {
				if t.ID == ref.ID {
					return t, nil
				}
			}
		}
		return r.store.Get(ctx, ref.ID)
	}

	if ref.Num < 1 {
		return service.Task{}, outOfRange(ref.Num)
	}
	if err := r.load(ctx); err != nil {
		return service.Task{}, err
	}
	if ref.Num > len(r.all) {
		return service.Task{}, outOfRange(ref.Num)
	}
	return r.all[ref.Num-1], nil
}

// resolveAll resolves every ref before anything is changed.
func (r *taskResolver) resolveAll(ctx context.Context, refs []TaskRef) ([]service.Task, error) {
	out := make([]service.Task, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		t, err := r.resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

func outOfRange(num int) error {
	return &errors.Error{Kind: errors.KindNotFound, Message: fmt.Sprintf("task number out of range: %d", num)}
}
