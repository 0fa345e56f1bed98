// Package stores implements board persistence on top of the SQLite database.
package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/data/db"
)

// BoardStore implements board.Store using SQLite. Every save replaces the
// stored board in a single transaction.
type BoardStore struct {
	db        *db.DB
	boardOpts []board.Option
}

var _ board.Store = (*BoardStore)(nil)

// NewBoardStore creates a new SQLite-backed board store. The options are
// applied to every board the store loads.
func NewBoardStore(db *db.DB, opts ...board.Option) *BoardStore {
	return &BoardStore{db: db, boardOpts: opts}
}

type taskRow struct {
	ID          string
	Status      string
	Title       string
	Description sql.NullString
	Tags        string
	CreatedAt   int64
	DueDate     sql.NullInt64
}

// Load rebuilds the board from the database. An empty database yields an
// empty board with the given columns.
func (s *BoardStore) Load(ctx context.Context, columns []string) (*board.Board, error) {
	b, err := board.New(columns, s.boardOpts...)
	if err != nil {
		return nil, err
	}

	stored, err := s.listColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", board.ErrPersistence, err)
	}
	for _, name := range stored {
		if err := b.EnsureColumn(name); err != nil {
			return nil, fmt.Errorf("%w: %w", board.ErrPersistence, err)
		}
	}

	rows, err := s.listTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", board.ErrPersistence, err)
	}

	for _, row := range rows {
		t, err := rowToTask(row)
		if err != nil {
			return nil, fmt.Errorf("%w: task %q: %w", board.ErrPersistence, row.ID, err)
		}
		if err := b.Place(row.Status, t); err != nil {
			return nil, fmt.Errorf("%w: task %q: %w", board.ErrPersistence, row.ID, err)
		}
	}

	return b, nil
}

// Save replaces the stored board with b.
func (s *BoardStore) Save(ctx context.Context, b *board.Board) error {
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM board_columns"); err != nil {
			return fmt.Errorf("clear columns: %w", err)
		}

		for i, name := range b.Columns() {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO board_columns (position, name) VALUES (?, ?)", i, name,
			); err != nil {
				return fmt.Errorf("insert column %q: %w", name, err)
			}
		}

		for i, t := range b.Tasks() {
			tags, err := json.Marshal(tagsOrEmpty(t.Tags))
			if err != nil {
				return fmt.Errorf("marshal tags: %w", err)
			}

			var due sql.NullInt64
			if t.DueDate != nil {
				due = sql.NullInt64{Int64: t.DueDate.Unix(), Valid: true}
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tasks (id, status, position, title, description, tags, created_at, due_date)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, t.Status(), i, t.Title, toNullString(t.Description), string(tags), t.CreatedAt.Unix(), due,
			); err != nil {
				return fmt.Errorf("insert task %s: %w", t.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("save board: %w: %w", board.ErrPersistence, err)
	}
	return nil
}

func (s *BoardStore) listColumns(ctx context.Context) ([]string, error) {
	rows, err := s.db.Conn().QueryContext(ctx, "SELECT name FROM board_columns ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *BoardStore) listTasks(ctx context.Context) ([]taskRow, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, status, title, description, tags, created_at, due_date
		FROM tasks
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []taskRow
	for rows.Next() {
		var r taskRow
		if err := rows.Scan(&r.ID, &r.Status, &r.Title, &r.Description, &r.Tags, &r.CreatedAt, &r.DueDate); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// rowToTask converts a stored row to a board.Task.
func rowToTask(row taskRow) (board.Task, error) {
	var tags []string
	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &tags); err != nil {
			return board.Task{}, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}

	t := board.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description.String,
		Tags:        tags,
		CreatedAt:   time.Unix(row.CreatedAt, 0),
	}
	if row.DueDate.Valid {
		due := time.Unix(row.DueDate.Int64, 0)
		t.DueDate = &due
	}
	return t, nil
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
