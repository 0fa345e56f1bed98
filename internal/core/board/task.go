// Package board defines the kanban board model: tasks, the columns that own
// them, and the cursor-driven transition engine that moves tasks between
// adjacent columns.
package board

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
)

// Task is a single unit of work on the board.
//
// The status field mirrors the name of the column that contains the task and
// is only ever written by this package.
type Task struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	CreatedAt   time.Time
	DueDate     *time.Time

	status string
}

// NewTask creates a task with a fresh id and CreatedAt set to now. The status
// is left empty until the task is placed on a board.
func NewTask(title, description string, tags []string, due *time.Time) Task {
	return newTask(uuid.NewString(), time.Now(), title, description, tags, due)
}

func newTask(id string, now time.Time, title, description string, tags []string, due *time.Time) Task {
	return Task{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Tags:        NormalizeTags(tags),
		CreatedAt:   now,
		DueDate:     due,
	}
}

// Status returns the name of the column the task belongs to.
func (t Task) Status() string {
	return t.status
}

// ShortID returns the first eight characters of the id for display.
func (t Task) ShortID() string {
	if len(t.ID) > 8 {
		return t.ID[:8]
	}
	return t.ID
}

// HasTag reports whether the task carries the given tag.
func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

func (t Task) clone() Task {
	c := t
	c.Tags = slices.Clone(t.Tags)
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return c
}

// NormalizeTags trims tags and drops blanks and duplicates, keeping the first
// occurrence order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitTags splits a comma separated list typed by a user into tags.
func SplitTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

// ParseDueDate parses free-text due date input. Blank input means no due
// date. Unparsable input returns ErrInvalidInput.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: due date %q: %w", ErrInvalidInput, s, err)
	}
	return &t, nil
}
