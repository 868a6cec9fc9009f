package task

import (
	"fmt"

	"github.com/colonyops/taskr/internal/core/date"
)

// FilterTasks returns the tasks selected by f in their original order. The
// input is never modified and the result never aliases it.
func FilterTasks(tasks List, f Filter) List {
	out := make(List, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out.Clone()
}

// CountActive returns the number of tasks not yet completed.
func CountActive(tasks List) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// CountCompleted returns the number of completed tasks.
func CountCompleted(tasks List) int {
	return len(tasks) - CountActive(tasks)
}

// CountTotal returns the number of tasks.
func CountTotal(tasks List) int {
	return len(tasks)
}

// Summary holds the header tallies. Active + Completed == Total.
type Summary struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Summarize tallies tasks.
func Summarize(tasks List) Summary {
	return Summary{
		Active:    CountActive(tasks),
		Completed: CountCompleted(tasks),
		Total:     CountTotal(tasks),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d active · %d completed · %d total", s.Active, s.Completed, s.Total)
}

// IsOverdue reports whether a task with the given due date and completion
// state is past due on today. Completed tasks and tasks without a due date are
// never overdue; a task due today is not overdue.
func IsOverdue(due *date.Date, completed bool, today date.Date) bool {
	if due == nil || completed {
		return false
	}
	return due.Before(today)
}

// FormatDueDate renders a due date for display, e.g. "Feb 25". It returns ""
// when there is no due date.
func FormatDueDate(due *date.Date) string {
	if due == nil {
		return ""
	}
	return due.Short()
}
