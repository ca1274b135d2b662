// Package service defines the backend-agnostic types and interface for
// task and auth operations.
package service

import "strings"

// Status is the lifecycle state of a task.
// Any status may be set from any other; there is no transition graph.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusDone}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the human-readable name of s.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// ParseStatus accepts a status in any case, with '-' or ' ' in place of '_'.
func ParseStatus(s string) (Status, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	st := Status(norm)
	return st, st.Valid()
}

// Task represents a single task item.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// NewTask is the input for creating a task.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Filter narrows the task list. Zero values mean "no filter".
type Filter struct {
	// Status is an exact-match filter.
	Status Status `json:"status,omitempty"`

	// Search is a case-insensitive substring matched against title or description.
	Search string `json:"search,omitempty"`
}

// IsZero reports whether f filters nothing.
func (f Filter) IsZero() bool {
	return f.Status == "" && f.Search == ""
}

// Credentials are the username and password sent to signup/signin.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is the account representation returned by signup.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// SignInResult is the signin response.
type SignInResult struct {
	AccessToken string `json:"accessToken"`
}
