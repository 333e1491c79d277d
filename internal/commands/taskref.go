package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"todoctl/internal/service"
	"todoctl/internal/store"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num  int   // 1-based display number, when ByID is false
	ID   int64 // server id, when ByID is true
	ByID bool  // true for "#<id>" references
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from the first arg and returns the
// remaining args.
//
// Parsing rules:
// 1. All digits (e.g. 3) -> display number in list order
// 2. '#' followed by digits (e.g. #17) -> task id
// 3. Otherwise -> error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, []string, error) {
	if len(args) == 0 {
		return TaskRef{}, nil, ErrTaskRefRequired
	}

	first, rest := args[0], args[1:]

	if isAllDigits(first) {
		num, err := strconv.Atoi(first)
		if err != nil {
			return TaskRef{}, nil, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{Num: num}, rest, nil
	}

	if digits, ok := strings.CutPrefix(first, "#"); ok && isAllDigits(digits) {
		id, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return TaskRef{}, nil, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{ID: id, ByID: true}, rest, nil
	}

	return TaskRef{}, nil, fmt.Errorf("invalid task reference: %s", first)
}

// ResolveTask finds the task a reference points at in the store's current collection.
func ResolveTask(st *store.Store, ref TaskRef) (service.Task, error) {
	if ref.ByID {
		task, ok := st.Find(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("task not found: #%d", ref.ID)
		}
		return task, nil
	}

	tasks := st.Tasks()
	if ref.Num < 1 || ref.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", ref.Num)
	}
	return tasks[ref.Num-1], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
