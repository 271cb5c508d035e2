// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tdash/internal/service"
)

const (
	// ViewSeparator is the separator line around a view header.
	ViewSeparator = "------------"

	// DeadlineLayout is how deadlines are shown in listings.
	DeadlineLayout = "Jan 2 15:04"
)

var titleCaser = cases.Title(language.English)

// FormatTask formats a task line of a view listing.
// Format: "{N:>4}  [{x| }] {DESCRIPTION}  ({priority}[, due {DEADLINE}])  #{ID}\n"
// An overdue open task shows "overdue" instead of "due".
func FormatTask(w io.Writer, num int, task service.Task, now time.Time) {
	box := "[ ]"
	if task.Done() {
		box = "[x]"
	}

	meta := strings.ToLower(string(task.Priority))
	if task.Deadline != nil {
		label := "due"
		if Overdue(task, now) {
			label = "overdue"
		}
		meta += ", " + label + " " + task.Deadline.In(now.Location()).Format(DeadlineLayout)
	}

	fmt.Fprintf(w, "%4d  %s %s  (%s)  #%d\n", num, box, normalizeDescription(task.Description), meta, task.ID)
}

// FormatViewHeader formats a view section header with the task count.
func FormatViewHeader(w io.Writer, view string, count int) {
	fmt.Fprintln(w, ViewSeparator)
	fmt.Fprintf(w, "%s (%d)\n", ViewTitle(view), count)
	fmt.Fprintln(w, ViewSeparator)
}

// ViewTitle returns the display title of a view name, e.g. "Upcoming".
func ViewTitle(view string) string {
	if strings.TrimSpace(view) == "" {
		return "Tasks"
	}
	return titleCaser.String(view)
}

// FormatTaskDetail formats a single task after a write, e.g.
// "#12 Buy milk (normal, not started)".
func FormatTaskDetail(w io.Writer, task service.Task) {
	status := strings.ToLower(strings.ReplaceAll(string(task.Status), "_", " "))
	fmt.Fprintf(w, "#%d %s (%s, %s)\n", task.ID, normalizeDescription(task.Description), strings.ToLower(string(task.Priority)), status)
}

// Overdue reports whether an open task's deadline has passed.
func Overdue(task service.Task, now time.Time) bool {
	return task.Deadline != nil && !task.Done() && task.Deadline.Before(now)
}

// normalizeDescription normalizes a task description for display.
// - Empty or whitespace-only descriptions become "(untitled)"
// - Newlines are replaced with spaces
func normalizeDescription(desc string) string {
	desc = strings.ReplaceAll(desc, "\r", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")

	if strings.TrimSpace(desc) == "" {
		return "(untitled)"
	}
	return desc
}
