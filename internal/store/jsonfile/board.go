// Package jsonfile persists the board as a single JSON document.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/hay-kot/kanban/internal/core/board"
)

// BoardFile is the root JSON structure stored on disk.
type BoardFile struct {
	Columns []string     `json:"columns"`
	Tasks   []TaskRecord `json:"tasks"`
}

// TaskRecord is the on-disk form of a task. Timestamps are epoch seconds.
type TaskRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	CreatedAt   int64    `json:"created_at"`
	DueDate     *int64   `json:"due_date"`
	Status      string   `json:"status"`
}

// BoardStore implements board.Store using a JSON file for persistence.
type BoardStore struct {
	path      string
	boardOpts []board.Option
	mu        sync.Mutex
}

// NewBoardStore creates a new JSON file board store at the given path. The
// options are applied to every board the store loads.
func NewBoardStore(path string, opts ...board.Option) *BoardStore {
	return &BoardStore{path: path, boardOpts: opts}
}

// Path returns the location of the board file.
func (s *BoardStore) Path() string {
	return s.path
}

// Load reads the board file. A missing or empty file yields an empty board
// with the given columns. Any read, schema or decode failure is returned
// wrapped in board.ErrPersistence.
func (s *BoardStore) Load(ctx context.Context, columns []string) (*board.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return board.New(columns, s.boardOpts...)
		}
		return nil, fmt.Errorf("read board file: %w: %w", board.ErrPersistence, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return board.New(columns, s.boardOpts...)
	}

	b, err := Decode(data, columns, s.boardOpts...)
	if err != nil {
		return nil, fmt.Errorf("load board %s: %w", s.path, err)
	}
	return b, nil
}

// Save writes the board to disk atomically.
func (s *BoardStore) Save(ctx context.Context, b *board.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Encode(b)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create board dir: %w: %w", board.ErrPersistence, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write board file: %w: %w", board.ErrPersistence, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace board file: %w: %w", board.ErrPersistence, err)
	}
	return nil
}

// Decode validates data against the board schema and rebuilds a board.
// Columns come first in configured order, then columns only the file knows,
// then any task status neither names.
func Decode(data []byte, columns []string, opts ...board.Option) (*board.Board, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse: %w", board.ErrPersistence, err)
	}

	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("%w: schema: %w", board.ErrPersistence, err)
	}

	var file BoardFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", board.ErrPersistence, err)
	}

	b, err := board.New(columns, opts...)
	if err != nil {
		return nil, err
	}

	for _, name := range file.Columns {
		if err := b.EnsureColumn(name); err != nil {
			return nil, fmt.Errorf("%w: %w", board.ErrPersistence, err)
		}
	}

	for _, rec := range file.Tasks {
		if err := b.Place(rec.Status, rec.toTask()); err != nil {
			return nil, fmt.Errorf("%w: task %q: %w", board.ErrPersistence, rec.ID, err)
		}
	}

	return b, nil
}

// Encode renders the board as an indented JSON document.
func Encode(b *board.Board) ([]byte, error) {
	file := BoardFile{
		Columns: b.Columns(),
		Tasks:   make([]TaskRecord, 0, b.Len()),
	}
	for _, t := range b.Tasks() {
		file.Tasks = append(file.Tasks, newTaskRecord(t))
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode board: %w: %w", board.ErrPersistence, err)
	}
	return append(data, '\n'), nil
}

func newTaskRecord(t board.Task) TaskRecord {
	rec := TaskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Tags:        slices.Clone(t.Tags),
		CreatedAt:   t.CreatedAt.Unix(),
		Status:      t.Status(),
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if t.DueDate != nil {
		due := t.DueDate.Unix()
		rec.DueDate = &due
	}
	return rec
}

func (r TaskRecord) toTask() board.Task {
	t := board.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
		CreatedAt:   time.Unix(r.CreatedAt, 0),
	}
	if r.DueDate != nil {
		due := time.Unix(*r.DueDate, 0)
		t.DueDate = &due
	}
	return t
}
