package dashboard

import (
	"fmt"
	"strings"
	"time"

	"tdash/internal/service"
)

// View is a client-side projection of the task collection.
type View string

const (
	Inbox    View = "inbox"
	Today    View = "today"
	Upcoming View = "upcoming"
)

// Views lists the views in display order.
var Views = []View{Inbox, Today, Upcoming}

// ParseView accepts a view name in any case. Empty means inbox.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case "":
		return Inbox, nil
	case Inbox, Today, Upcoming:
		return v, nil
	}
	return "", fmt.Errorf("invalid view: %s (want inbox, today or upcoming)", s)
}

// Filter returns the tasks of the view at now, in collection order.
// Tasks without a deadline only appear in the inbox.
func (v View) Filter(tasks []service.Task, now time.Time) []service.Task {
	if v == Inbox || v == "" {
		return tasks
	}
	result := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if v.Match(t, now) {
			result = append(result, t)
		}
	}
	return result
}

// Match reports whether a single task belongs to the view at now.
func (v View) Match(t service.Task, now time.Time) bool {
	switch v {
	case Inbox, "":
		return true
	case Today:
		return t.Deadline != nil && sameDay(t.Deadline.Time, now)
	case Upcoming:
		return t.Deadline != nil && t.Deadline.Time.After(now)
	}
	return false
}

// sameDay compares calendar days in now's location.
func sameDay(a, now time.Time) bool {
	a = a.In(now.Location())
	ay, am, ad := a.Date()
	ny, nm, nd := now.Date()
	return ay == ny && am == nm && ad == nd
}
