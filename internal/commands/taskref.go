package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tdash/internal/dashboard"
	"tdash/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num  int   // 1-based position in the listed view, 0 if ByID
	ID   int64 // server id, 0 unless ByID
	ByID bool  // true for a "#<id>" reference
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. If first arg is all digits → position in the view, as printed by list
// 2. If first arg is # followed by digits → server id
// 3. A lone "#" followed by a digits arg ("# 12") → server id
// 4. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	first := args[0]

	if isAllDigits(first) {
		num, err := strconv.Atoi(first)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{Num: num}, nil
	}

	if rest, ok := strings.CutPrefix(first, "#"); ok {
		if rest == "" {
			if len(args) < 2 {
				return TaskRef{}, ErrTaskRefRequired
			}
			rest = args[1]
		}
		if !isAllDigits(rest) {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{ID: id, ByID: true}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
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

// errRefNotFound is returned when a reference matches no fetched task.
type errRefNotFound struct {
	ref TaskRef
}

func (e errRefNotFound) Error() string {
	if e.ref.ByID {
		return fmt.Sprintf("task not found: #%d", e.ref.ID)
	}
	return fmt.Sprintf("task number out of range: %d", e.ref.Num)
}

// Resolve finds the task ref points at in d's fetched collection. Positions
// count within view v, in the order list prints them.
func (r TaskRef) Resolve(d *dashboard.Dashboard, v dashboard.View) (service.Task, error) {
	if r.ByID {
		if task, ok := d.Find(r.ID); ok {
			return task, nil
		}
		return service.Task{}, errRefNotFound{r}
	}

	tasks := d.View(v)
	if r.Num < 1 || r.Num > len(tasks) {
		return service.Task{}, errRefNotFound{r}
	}
	return tasks[r.Num-1], nil
}
