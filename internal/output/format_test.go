package output

import (
	"bytes"
	"testing"

	"taskwiz/internal/service"
	"taskwiz/internal/testutil"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task service.Task
		want string
	}{
		{"open", 1, service.Task{Title: "Buy milk", Status: service.StatusOpen}, "   1  Open         Buy milk\n"},
		{"in progress", 12, service.Task{Title: "Report", Status: service.StatusInProgress}, "  12  In Progress  Report\n"},
		{"done", 3, service.Task{Title: "Call", Status: service.StatusDone}, "   3  Done         Call\n"},
		{"untitled", 4, service.Task{Title: "  ", Status: service.StatusOpen}, "   4  Open         (untitled)\n"},
		{"newline", 5, service.Task{Title: "a\nb", Status: service.StatusOpen}, "   5  Open         a b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.num, tt.task)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatCount(t *testing.T) {
	var buf bytes.Buffer
	FormatCount(&buf, 2)
	if buf.String() != "2 task(s) found\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatFilters(t *testing.T) {
	var buf bytes.Buffer
	FormatFilters(&buf, service.Filter{})
	if buf.Len() != 0 {
		t.Errorf("expected no output for empty filter, got %q", buf.String())
	}

	FormatFilters(&buf, service.Filter{Status: service.StatusDone, Search: "milk"})
	if buf.String() != "filter: status=Done search=\"milk\"\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskDetail(&buf, service.Task{
		ID:          "7f1c",
		Title:       "Buy milk",
		Description: "2 liters\nwhole",
		Status:      service.StatusInProgress,
	})
	testutil.GoldenString(t, "task_detail", buf.String())
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	err := FormatJSON(&buf, []service.Task{{ID: "1", Title: "a", Description: "b", Status: service.StatusOpen}})
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	testutil.Golden(t, "tasks", buf.Bytes())
}
