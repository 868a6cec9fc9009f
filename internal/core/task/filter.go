package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilter is returned when a filter value is not one of the known
// selections.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter selects which derived view is shown.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

var filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// Filters returns every valid filter in display order.
func Filters() []Filter {
	out := make([]Filter, len(filters))
	copy(out, filters)
	return out
}

// ParseFilter converts user input into a Filter. Matching ignores case and
// surrounding whitespace.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("%w %q: must be one of all, active, completed", ErrInvalidFilter, s)
	}
	return f, nil
}

// IsValid reports whether f is a known filter.
func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Match reports whether t belongs in the view selected by f. Invalid filters
// match nothing.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterAll:
		return true
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return false
	}
}

// Label is the capitalized name shown on filter tabs.
func (f Filter) Label() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// Next returns the filter after f in display order, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range filters {
		if candidate == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}

// Selection holds the active filter. The zero value selects FilterAll. It is
// process state only and is never persisted.
type Selection struct {
	current Filter
}

// Current returns the selected filter.
func (s *Selection) Current() Filter {
	if s.current == "" {
		return FilterAll
	}
	return s.current
}

// Set replaces the selection. Invalid values are rejected and the previous
// selection is kept.
func (s *Selection) Set(f Filter) error {
	if !f.IsValid() {
		return fmt.Errorf("%w %q", ErrInvalidFilter, string(f))
	}
	s.current = f
	return nil
}

// Cycle advances to the next filter and returns it.
func (s *Selection) Cycle() Filter {
	s.current = s.Current().Next()
	return s.current
}
