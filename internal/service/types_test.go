package service

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"OPEN", StatusOpen, true},
		{"in_progress", StatusInProgress, true},
		{"in-progress", StatusInProgress, true},
		{" done ", StatusDone, true},
		{"closed", Status("CLOSED"), false},
		{"", Status(""), false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusInProgress.Label() != "In Progress" {
		t.Errorf("unexpected label %q", StatusInProgress.Label())
	}
	if Status("X").Label() != "X" {
		t.Errorf("unknown status should label as itself")
	}
}

func TestFilterIsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Error("empty filter should be zero")
	}
	if (Filter{Search: "milk"}).IsZero() {
		t.Error("search filter should not be zero")
	}
}
