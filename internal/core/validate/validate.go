// Package validate provides shared validation functions for task input.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/kanban/internal/core/board"
)

// Title validates a task title is non-empty after trimming whitespace.
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// DueDate validates that s is empty or parses as a due date.
func DueDate(s string) error {
	_, err := board.ParseDueDate(s)
	return err
}

// Task validates the user supplied fields of a new task. Failures are
// reported as criterio.FieldErrors keyed by field name.
func Task(title, due string) error {
	return criterio.ValidateStruct(
		criterio.Run("title", title, Title),
		criterio.Run("due", due, DueDate),
	)
}
