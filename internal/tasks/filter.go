package tasks

import (
	"strings"

	"taskwiz/internal/service"
)

// FilterPatch is a partial update of the filter criteria.
// Nil fields leave the current value unchanged.
type FilterPatch struct {
	Status *service.Status
	Search *string
}

// Apply merges p into f.
func (p FilterPatch) Apply(f service.Filter) service.Filter {
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.Search != nil {
		f.Search = *p.Search
	}
	return f
}

// ResetFilters is the patch that clears every criterion.
func ResetFilters() FilterPatch {
	empty := service.Status("")
	none := ""
	return FilterPatch{Status: &empty, Search: &none}
}

// Matches reports whether t satisfies f: exact status match and a
// case-insensitive substring match on title or description.
func Matches(t service.Task, f service.Filter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q)
}

// Visible returns the tasks matching f, preserving order. The result is a
// new slice; tasks is never modified.
func Visible(tasks []service.Task, f service.Filter) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(t, f) {
			out = append(out, t)
		}
	}
	return out
}
