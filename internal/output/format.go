// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"taskwiz/internal/service"
)

// labelWidth fits the longest status label ("In Progress").
const labelWidth = 11

// FormatTask formats a task line for the list.
// Format: "{N:>4}  {LABEL:<11}  {TITLE}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %-*s  %s\n", num, labelWidth, task.Status.Label(), normalizeTitle(task.Title))
}

// FormatCount formats the count line under a list.
func FormatCount(w io.Writer, n int) {
	fmt.Fprintf(w, "%d task(s) found\n", n)
}

// FormatFilters writes the active filter criteria, or nothing when none
// are set.
func FormatFilters(w io.Writer, f service.Filter) {
	if f.IsZero() {
		return
	}
	var parts []string
	if f.Status != "" {
		parts = append(parts, "status="+f.Status.Label())
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.Search))
	}
	fmt.Fprintf(w, "filter: %s\n", strings.Join(parts, " "))
}

// FormatTaskDetail formats the full detail view of a task.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "Title:        %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "Status:       %s\n", task.Status.Label())
	fmt.Fprintf(w, "ID:           %s\n", task.ID)
	fmt.Fprintln(w, "Description:")
	for _, line := range strings.Split(strings.TrimRight(task.Description, "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// FormatJSON writes v as indented JSON.
func FormatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
