package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef is a parsed task reference: either a 1-based position in the
// unfiltered task list or a task ID.
type TaskRef struct {
	Num int    // 1-based position; 0 when ID is set
	ID  string // task ID; empty when Num is set
}

// IsNum reports whether r is a positional reference.
func (r TaskRef) IsNum() bool {
	return r.ID == ""
}

func (r TaskRef) String() string {
	if r.IsNum() {
		return strconv.Itoa(r.Num)
	}
	if isAllDigits(r.ID) {
		return idPrefix + r.ID
	}
	return r.ID
}

// idPrefix forces a reference to be read as a task ID, for IDs made only
// of digits.
const idPrefix = "id:"

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a single task reference.
//
// Parsing rules:
//  1. "id:<id>" → task ID, even when <id> is all digits
//  2. All digits → positional reference (as printed by `taskwiz list`)
//  3. Otherwise a task ID made of letters, digits, '-' and '_'
//  4. Anything else → error: invalid task reference: <ref>
func ParseTaskRef(s string) (TaskRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if id, ok := strings.CutPrefix(s, idPrefix); ok {
		if !isID(id) {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", s)
		}
		return TaskRef{ID: id}, nil
	}

	if isAllDigits(s) {
		num, err := strconv.Atoi(s)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", s)
		}
		return TaskRef{Num: num}, nil
	}

	if !isID(s) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", s)
	}
	return TaskRef{ID: s}, nil
}

// isID reports whether s is a non-empty run of letters, digits, '-' and '_'.
func isID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

// ParseTaskRefs parses one or more task references.
func ParseTaskRefs(args []string) ([]TaskRef, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	refs := make([]TaskRef, 0, len(args))
	for _, arg := range args {
		ref, err := ParseTaskRef(arg)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
