// Package task defines the task domain model, the filter selection, and the
// pure derivations the presentation layer renders from.
package task

import (
	"slices"
	"strings"

	"github.com/colonyops/taskr/internal/core/date"
)

// Task is one user-created item. Text and DueDate are fixed at creation;
// Completed changes only through Toggled.
type Task struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	DueDate   *date.Date `json:"dueDate"`
}

// New builds an active task from user input. Text is trimmed; ok is false
// when nothing remains, in which case no task should be stored.
func New(id, text string, due *date.Date) (t Task, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false
	}

	if due != nil {
		due = due.Ptr()
	}

	return Task{
		ID:      id,
		Text:    text,
		DueDate: due,
	}, true
}

// Toggled returns a copy of t with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// List is an ordered task collection. New tasks are appended; no operation
// re-sorts it.
type List []Task

// Index returns the position of the task with the given id, or -1.
func (l List) Index(id string) int {
	return slices.IndexFunc(l, func(t Task) bool { return t.ID == id })
}

// Get returns the task with the given id.
func (l List) Get(id string) (Task, bool) {
	i := l.Index(id)
	if i < 0 {
		return Task{}, false
	}
	return l[i], true
}

// IDs returns task ids in collection order.
func (l List) IDs() []string {
	ids := make([]string, len(l))
	for i, t := range l {
		ids[i] = t.ID
	}
	return ids
}

// Clone returns a copy of l that shares no memory with it, including due dates.
func (l List) Clone() List {
	if l == nil {
		return nil
	}

	out := make(List, len(l))
	for i, t := range l {
		if t.DueDate != nil {
			t.DueDate = t.DueDate.Ptr()
		}
		out[i] = t
	}
	return out
}

// Equal reports whether two lists hold the same tasks in the same order.
func (l List) Equal(other List) bool {
	return slices.EqualFunc(l, other, func(a, b Task) bool {
		if a.ID != b.ID || a.Text != b.Text || a.Completed != b.Completed {
			return false
		}
		if a.DueDate == nil || b.DueDate == nil {
			return a.DueDate == b.DueDate
		}
		return a.DueDate.Equal(*b.DueDate)
	})
}

// ResolvePrefix finds the task whose id equals ref or, failing that, the
// single task whose id starts with ref. It returns the number of candidates:
// 1 when t is the match, 0 for an empty or unknown ref, and more than 1 when
// the prefix is ambiguous.
func (l List) ResolvePrefix(ref string) (Task, int) {
	if ref == "" {
		return Task{}, 0
	}
	if t, ok := l.Get(ref); ok {
		return t, 1
	}

	var (
		found Task
		hits  int
	)
	for _, t := range l {
		if strings.HasPrefix(t.ID, ref) {
			found = t
			hits++
		}
	}

	if hits != 1 {
		return Task{}, hits
	}
	return found, hits
}

// DuplicateIDs returns each id that appears more than once, in order of its
// first repeat.
func (l List) DuplicateIDs() []string {
	seen := make(map[string]int, len(l))
	var dups []string
	for _, t := range l {
		seen[t.ID]++
		if seen[t.ID] == 2 {
			dups = append(dups, t.ID)
		}
	}
	return dups
}
