// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/taskr/internal/core/date"
	"github.com/colonyops/taskr/internal/core/task"
)

// TaskText validates task text is non-empty after trimming whitespace.
func TaskText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}

// TaskTextField returns a criterio validator for task text.
func TaskTextField(field, text string) error {
	return criterio.Run(field, text, TaskText)
}

// DueDate validates an optional YYYY-MM-DD due date. Empty input is valid.
func DueDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := date.Parse(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("due date must be YYYY-MM-DD")
	}
	return nil
}

// ParseDueDate converts optional user input into a due date. Empty input
// yields nil.
func ParseDueDate(s string) (*date.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("due date %q: %w", s, err)
	}
	return &d, nil
}

// Filter validates a filter name.
func Filter(s string) error {
	_, err := task.ParseFilter(s)
	return err
}
