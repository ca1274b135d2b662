package tasks

import (
	"testing"

	"taskwiz/internal/errors"
	"taskwiz/internal/service"
)

func sample() []service.Task {
	return []service.Task{
		{ID: "a", Title: "Buy milk", Description: "two litres, semi-skimmed", Status: service.StatusOpen},
		{ID: "b", Title: "Write report", Description: "quarterly numbers for finance", Status: service.StatusInProgress},
		{ID: "c", Title: "Call plumber", Description: "kitchen sink leaks again", Status: service.StatusDone},
	}
}

func loaded(tasks []service.Task) State {
	s := Reduce(State{}, LoadStarted{Seq: 1})
	return Reduce(s, Loaded{Seq: 1, Tasks: tasks})
}

func ids(tasks []service.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReduceLoad(t *testing.T) {
	s := Reduce(State{}, LoadStarted{Seq: 1})
	if !s.Loading {
		t.Fatal("expected Loading after LoadStarted")
	}

	s = Reduce(s, Loaded{Seq: 1, Tasks: sample()})
	if s.Loading {
		t.Error("expected Loading cleared")
	}
	if got := ids(s.Tasks); !equalIDs(got, []string{"a", "b", "c"}) {
		t.Errorf("tasks = %v", got)
	}
}

func TestReduceLoadFailedKeepsTasks(t *testing.T) {
	s := loaded(sample())
	s = Reduce(s, LoadStarted{Seq: 2})
	s = Reduce(s, LoadFailed{Seq: 2, Err: errors.Network("could not reach server", nil)})

	if len(s.Tasks) != 3 {
		t.Errorf("expected tasks untouched, got %d", len(s.Tasks))
	}
	if s.Loading {
		t.Error("expected Loading cleared")
	}
	if s.Err == nil || s.Err.Kind != errors.KindNetwork {
		t.Errorf("Err = %v", s.Err)
	}
}

func TestReduceStaleLoadDropped(t *testing.T) {
	s := Reduce(State{}, LoadStarted{Seq: 1})
	s = Reduce(s, LoadStarted{Seq: 2})

	// Newest load resolves first, then the older one arrives.
	s = Reduce(s, Loaded{Seq: 2, Tasks: sample()[:1]})
	s = Reduce(s, Loaded{Seq: 1, Tasks: sample()})

	if got := ids(s.Tasks); !equalIDs(got, []string{"a"}) {
		t.Errorf("stale load overwrote tasks: %v", got)
	}

	s = Reduce(s, LoadFailed{Seq: 1, Err: errors.New("boom")})
	if s.Err != nil {
		t.Errorf("stale failure recorded: %v", s.Err)
	}
}

func TestReduceOlderLoadStartedIgnored(t *testing.T) {
	s := Reduce(State{}, LoadStarted{Seq: 5})
	s = Reduce(s, LoadStarted{Seq: 3})
	if s.Seq != 5 {
		t.Errorf("Seq = %d, want 5", s.Seq)
	}
}

func TestReduceAddedPrepends(t *testing.T) {
	s := loaded(sample())
	s = Reduce(s, Added{Task: service.Task{ID: "n", Title: "New", Status: service.StatusOpen}})

	if got := ids(s.Tasks); !equalIDs(got, []string{"n", "a", "b", "c"}) {
		t.Errorf("tasks = %v", got)
	}
}

func TestReduceUpdatedReplacesInPlace(t *testing.T) {
	s := loaded(sample())
	before := s.Tasks

	s = Reduce(s, Updated{Task: service.Task{ID: "b", Title: "Write report", Status: service.StatusDone}})

	if got := ids(s.Tasks); !equalIDs(got, []string{"a", "b", "c"}) {
		t.Errorf("order changed: %v", got)
	}
	if s.Tasks[1].Status != service.StatusDone {
		t.Errorf("status = %s", s.Tasks[1].Status)
	}
	if s.Tasks[0] != before[0] || s.Tasks[2] != before[2] {
		t.Error("other tasks changed")
	}
	if before[1].Status != service.StatusInProgress {
		t.Error("previous snapshot was mutated")
	}
}

func TestReduceUpdatedUnknownIsNoop(t *testing.T) {
	s := loaded(sample())
	s = Reduce(s, Updated{Task: service.Task{ID: "zzz", Status: service.StatusDone}})
	if got := ids(s.Tasks); !equalIDs(got, []string{"a", "b", "c"}) {
		t.Errorf("tasks = %v", got)
	}
}

func TestReduceRemoved(t *testing.T) {
	s := loaded(sample())
	before := s.Tasks

	s = Reduce(s, Removed{ID: "b"})
	if got := ids(s.Tasks); !equalIDs(got, []string{"a", "c"}) {
		t.Errorf("tasks = %v", got)
	}
	if len(before) != 3 || before[1].ID != "b" {
		t.Error("previous snapshot was mutated")
	}

	s = Reduce(s, Removed{ID: "missing"})
	if len(s.Tasks) != 2 {
		t.Errorf("removing unknown ID changed length to %d", len(s.Tasks))
	}
}

func TestReduceFiltersChangedMerges(t *testing.T) {
	done := service.StatusDone
	search := "milk"

	s := Reduce(State{}, FiltersChanged{Patch: FilterPatch{Status: &done}})
	s = Reduce(s, FiltersChanged{Patch: FilterPatch{Search: &search}})

	want := service.Filter{Status: service.StatusDone, Search: "milk"}
	if s.Filters != want {
		t.Errorf("Filters = %+v, want %+v", s.Filters, want)
	}

	s = Reduce(s, FiltersChanged{Patch: ResetFilters()})
	if !s.Filters.IsZero() {
		t.Errorf("expected reset filters, got %+v", s.Filters)
	}
}

func TestReduceFailedNormalizesPlainErrors(t *testing.T) {
	s := Reduce(State{}, Failed{Err: errors.New("plain")})
	if s.Err == nil || s.Err.Kind != errors.KindUnknown || s.Err.Message != "plain" {
		t.Errorf("Err = %+v", s.Err)
	}
}

func TestVisible(t *testing.T) {
	tests := []struct {
		name   string
		filter service.Filter
		want   []string
	}{
		{"no filter", service.Filter{}, []string{"a", "b", "c"}},
		{"status", service.Filter{Status: service.StatusDone}, []string{"c"}},
		{"search title case-insensitive", service.Filter{Search: "MILK"}, []string{"a"}},
		{"search description", service.Filter{Search: "finance"}, []string{"b"}},
		{"status and search", service.Filter{Status: service.StatusOpen, Search: "report"}, nil},
		{"no match", service.Filter{Search: "nothing"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := sample()
			got := Visible(all, tt.filter)
			if !equalIDs(ids(got), tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Errorf("Visible = %v, want %v", ids(got), tt.want)
			}
			for _, task := range got {
				if !Matches(task, tt.filter) {
					t.Errorf("visible task %s does not match filter", task.ID)
				}
			}
			if len(all) != 3 {
				t.Error("input slice was modified")
			}
		})
	}
}

func TestStateFind(t *testing.T) {
	s := loaded(sample())
	if task, ok := s.Find("c"); !ok || task.Title != "Call plumber" {
		t.Errorf("Find(c) = %+v, %v", task, ok)
	}
	if _, ok := s.Find("x"); ok {
		t.Error("Find(x) should fail")
	}
}
