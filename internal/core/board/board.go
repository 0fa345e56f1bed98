package board

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/kanban/internal/core/logging"
)

// Direction is the direction a task moves between adjacent columns.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// noTask marks an empty selection within the selected column.
const noTask = -1

// Board is the full board state: ordered columns and the navigation cursor.
// All mutation goes through Board so that a task's status always matches the
// column that contains it.
type Board struct {
	columns []*Column
	selCol  int
	selTask int

	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithClock overrides the clock used to stamp new tasks.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(fn func() string) Option {
	return func(b *Board) { b.newID = fn }
}

// WithLogger sets the logger used to report invariant violations.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Board) { b.log = l }
}

// New creates an empty board with the given column order. Column names must
// be unique and non-blank.
func New(columns []string, opts ...Option) (*Board, error) {
	b := &Board{
		selTask: noTask,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     logging.Component("board"),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, name := range columns {
		if err := b.addColumn(name); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *Board) addColumn(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: blank column name", ErrInvalidInput)
	}
	if b.columnIndex(name) >= 0 {
		return fmt.Errorf("%w: duplicate column %q", ErrInvalidInput, name)
	}
	b.columns = append(b.columns, NewColumn(name))
	return nil
}

// Columns returns the column names in board order.
func (b *Board) Columns() []string {
	names := make([]string, len(b.columns))
	for i, c := range b.columns {
		names[i] = c.Name()
	}
	return names
}

// SelectedColumnIndex returns the index of the selected column.
func (b *Board) SelectedColumnIndex() int {
	return b.selCol
}

// SelectedTaskIndex returns the index of the selected task within the
// selected column. ok is false when the selected column is empty.
func (b *Board) SelectedTaskIndex() (idx int, ok bool) {
	if b.selTask == noTask {
		return 0, false
	}
	return b.selTask, true
}

// SelectedColumn returns the name of the selected column, or "" on a board
// without columns.
func (b *Board) SelectedColumn() string {
	if len(b.columns) == 0 {
		return ""
	}
	return b.columns[b.selCol].Name()
}

// SelectedTask returns a copy of the selected task.
func (b *Board) SelectedTask() (Task, bool) {
	if len(b.columns) == 0 || b.selTask == noTask {
		return Task{}, false
	}
	return b.columns[b.selCol].tasks[b.selTask].clone(), true
}

// TasksInColumn returns the tasks of the named column in display order.
func (b *Board) TasksInColumn(name string) []Task {
	idx := b.columnIndex(name)
	if idx < 0 {
		return nil
	}
	return b.columns[idx].Tasks()
}

// Tasks returns every task in column order.
func (b *Board) Tasks() []Task {
	var out []Task
	for _, c := range b.columns {
		out = append(out, c.Tasks()...)
	}
	return out
}

// Len returns the number of tasks on the board.
func (b *Board) Len() int {
	n := 0
	for _, c := range b.columns {
		n += c.Len()
	}
	return n
}

// Task looks up a task by id.
func (b *Board) Task(id string) (Task, bool) {
	for _, c := range b.columns {
		if i := c.index(id); i >= 0 {
			return c.tasks[i].clone(), true
		}
	}
	return Task{}, false
}

// AddTask creates a task in the selected column. The selection is left as is
// unless the column was empty, in which case the new task becomes selected.
// Returns false on a board without columns.
func (b *Board) AddTask(title, description string, tags []string, due *time.Time) (Task, bool) {
	if len(b.columns) == 0 {
		return Task{}, false
	}

	t := newTask(b.newID(), b.now(), title, description, tags, due)
	col := b.columns[b.selCol]
	t.status = col.Name()
	col.Append(t)

	if b.selTask == noTask {
		b.selTask = 0
	}

	return t.clone(), true
}

// MoveTask moves the selected task one column in the given direction and
// appends it to the destination. Moving past either end of the board is a
// no-op. The selection follows the moved task. Reports whether a move
// happened.
func (b *Board) MoveTask(dir Direction) bool {
	if len(b.columns) == 0 || b.selTask == noTask {
		return false
	}

	dst := clamp(b.selCol+int(dir), 0, len(b.columns)-1)
	if dst == b.selCol {
		return false
	}

	src := b.columns[b.selCol]
	id := src.tasks[b.selTask].ID

	t, err := src.RemoveByID(id)
	if err != nil {
		b.log.Error().Err(err).
			Str("task", id).
			Str("column", src.Name()).
			Msg("selected task missing from its column")
		return false
	}

	dest := b.columns[dst]
	t.status = dest.Name()
	dest.Append(t)

	b.selCol = dst
	b.selTask = dest.Len() - 1

	b.log.Debug().
		Str("task", id).
		Str("from", src.Name()).
		Str("to", dest.Name()).
		Msg("task moved")

	return true
}

// SelectPreviousColumn moves the cursor one column to the left.
func (b *Board) SelectPreviousColumn() {
	b.selectColumn(b.selCol - 1)
}

// SelectNextColumn moves the cursor one column to the right.
func (b *Board) SelectNextColumn() {
	b.selectColumn(b.selCol + 1)
}

func (b *Board) selectColumn(idx int) {
	if len(b.columns) == 0 {
		return
	}

	idx = clamp(idx, 0, len(b.columns)-1)
	if idx == b.selCol {
		return
	}

	b.selCol = idx
	b.resetTaskSelection()
}

func (b *Board) resetTaskSelection() {
	if b.columns[b.selCol].Len() > 0 {
		b.selTask = 0
	} else {
		b.selTask = noTask
	}
}

// SelectPreviousTask moves the cursor up within the selected column.
func (b *Board) SelectPreviousTask() {
	if b.selTask == noTask || b.selTask == 0 {
		return
	}
	b.selTask--
}

// SelectNextTask moves the cursor down within the selected column.
func (b *Board) SelectNextTask() {
	if len(b.columns) == 0 || b.selTask == noTask {
		return
	}
	if b.selTask < b.columns[b.selCol].Len()-1 {
		b.selTask++
	}
}

// SelectColumn moves the cursor to the named column.
func (b *Board) SelectColumn(name string) bool {
	idx := b.columnIndex(name)
	if idx < 0 {
		return false
	}
	if idx != b.selCol {
		b.selCol = idx
		b.resetTaskSelection()
	}
	return true
}

// SelectTask moves the cursor onto the task with the given id.
func (b *Board) SelectTask(id string) bool {
	for ci, c := range b.columns {
		if ti := c.index(id); ti >= 0 {
			b.selCol = ci
			b.selTask = ti
			return true
		}
	}
	return false
}

// Place appends an existing task to the named column. It is meant for
// persistence adapters and imports: an unknown status adds a trailing column
// so that no task is dropped. Surrounding whitespace in status is ignored.
// The selection is updated if it was empty.
func (b *Board) Place(status string, t Task) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return fmt.Errorf("%w: task %q has no status", ErrInvalidInput, t.ID)
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: task without id", ErrInvalidInput)
	}
	if _, exists := b.Task(t.ID); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
	}

	idx := b.columnIndex(status)
	if idx < 0 {
		if err := b.addColumn(status); err != nil {
			return err
		}
		idx = len(b.columns) - 1
	}

	t = t.clone()
	t.Tags = NormalizeTags(t.Tags)
	t.status = status
	b.columns[idx].Append(t)

	if idx == b.selCol && b.selTask == noTask {
		b.selTask = 0
	}

	return nil
}

// EnsureColumn appends an empty column if no column has the given name,
// ignoring surrounding whitespace.
func (b *Board) EnsureColumn(name string) error {
	name = strings.TrimSpace(name)
	if b.columnIndex(name) >= 0 {
		return nil
	}
	return b.addColumn(name)
}

func (b *Board) columnIndex(name string) int {
	return slices.IndexFunc(b.columns, func(c *Column) bool { return c.Name() == name })
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
