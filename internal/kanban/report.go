package kanban

import (
	"time"

	"github.com/hay-kot/kanban/internal/core/board"
)

// ColumnStats counts the tasks of one column.
type ColumnStats struct {
	Column  string `json:"column"`
	Count   int    `json:"count"`
	Overdue int    `json:"overdue"`
}

// Stats summarises a board.
type Stats struct {
	Columns []ColumnStats `json:"columns"`
	Total   int           `json:"total"`
	Overdue int           `json:"overdue"`
	Tags    int           `json:"tags"`
}

// ComputeStats counts tasks per column in column order. A task is overdue
// when its due date is before now.
func ComputeStats(b *board.Board, now time.Time) Stats {
	stats := Stats{Columns: make([]ColumnStats, 0, len(b.Columns()))}

	for _, name := range b.Columns() {
		cs := ColumnStats{Column: name}
		for _, t := range b.TasksInColumn(name) {
			cs.Count++
			if IsOverdue(t, now) {
				cs.Overdue++
			}
		}
		stats.Columns = append(stats.Columns, cs)
		stats.Total += cs.Count
		stats.Overdue += cs.Overdue
	}

	stats.Tags = len(Tags(b))
	return stats
}

// Tags returns the distinct tags on the board in first-seen order.
func Tags(b *board.Board) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range b.Tasks() {
		for _, tag := range t.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

// IsOverdue reports whether t has a due date before now.
func IsOverdue(t board.Task, now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now)
}
