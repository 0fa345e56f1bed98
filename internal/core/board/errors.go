package board

import "errors"

var (
	// ErrNotFound is returned when a task id is not present in a column.
	ErrNotFound = errors.New("task not found")
	// ErrPersistence marks I/O and malformed-data failures while loading or saving a board.
	ErrPersistence = errors.New("board persistence failed")
	// ErrInvalidInput is returned for free-text input that cannot be parsed, such as a due date.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateID is returned when placing a task whose id already exists on the board.
	ErrDuplicateID = errors.New("duplicate task id")
)
