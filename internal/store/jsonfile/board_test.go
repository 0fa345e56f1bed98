package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/kanban/internal/core/board"
)

var defaultColumns = []string{"Todo", "Doing", "Done"}

func testOpts() []board.Option {
	n := 0
	return []board.Option{
		board.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		board.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("task-%d", n)
		}),
		board.WithLogger(zerolog.Nop()),
	}
}

func newTestStore(t *testing.T) (*BoardStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "board.json")
	return NewBoardStore(path, testOpts()...), path
}

func TestBoardStore_LoadMissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	b, err := store.Load(context.Background(), defaultColumns)
	require.NoError(t, err)
	assert.Equal(t, defaultColumns, b.Columns())
	assert.Equal(t, 0, b.Len())
}

func TestBoardStore_LoadEmptyFile(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	b, err := store.Load(context.Background(), defaultColumns)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestBoardStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	b, err := store.Load(ctx, defaultColumns)
	require.NoError(t, err)

	due := time.Unix(1741910400, 0)
	_, ok := b.AddTask("write docs", "# Heading", []string{"doc", "ui"}, &due)
	require.True(t, ok)
	_, ok = b.AddTask("ship", "", nil, nil)
	require.True(t, ok)
	require.True(t, b.MoveTask(board.Forward))

	require.NoError(t, store.Save(ctx, b))
	assert.NoFileExists(t, path+".tmp")

	loaded, err := NewBoardStore(path, testOpts()...).Load(ctx, defaultColumns)
	require.NoError(t, err)

	assert.Equal(t, b.Columns(), loaded.Columns())
	for _, col := range defaultColumns {
		assert.Equal(t, b.TasksInColumn(col), loaded.TasksInColumn(col), "column %s", col)
	}

	todo := loaded.TasksInColumn("Todo")
	require.Len(t, todo, 1)
	assert.Equal(t, "ship", todo[0].Title)
	assert.Nil(t, todo[0].DueDate)

	doing := loaded.TasksInColumn("Doing")
	require.Len(t, doing, 1)
	assert.Equal(t, "Doing", doing[0].Status())
	require.NotNil(t, doing[0].DueDate)
	assert.Equal(t, due.Unix(), doing[0].DueDate.Unix())
	assert.Equal(t, int64(1700000000), doing[0].CreatedAt.Unix())
}

func TestBoardStore_FileFormat(t *testing.T) {
	ctx := context.Background()
	store, path := newTestStore(t)

	b, err := store.Load(ctx, defaultColumns)
	require.NoError(t, err)
	_, _ = b.AddTask("title", "", nil, nil)
	require.NoError(t, store.Save(ctx, b))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"columns": [`)
	assert.Contains(t, out, `"created_at": 1700000000`)
	assert.Contains(t, out, `"due_date": null`)
	assert.Contains(t, out, `"tags": []`)
	assert.Contains(t, out, `"status": "Todo"`)
	assert.NotContains(t, out, `"description"`, "empty description is omitted")
}

func TestBoardStore_ColumnOrdering(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{
  "columns": ["Todo", "Review", "Done"],
  "tasks": [
    {"id": "a", "title": "A", "tags": [], "created_at": 1, "due_date": null, "status": "Blocked"},
    {"id": "b", "title": "B", "tags": ["x"], "created_at": 2, "due_date": 3, "status": "Review"},
    {"id": "c", "title": "C", "created_at": 4, "status": "Todo"}
  ]
}`), 0o644))

	b, err := store.Load(context.Background(), defaultColumns)
	require.NoError(t, err)

	assert.Equal(t, []string{"Todo", "Doing", "Done", "Review", "Blocked"}, b.Columns())
	assert.Len(t, b.TasksInColumn("Blocked"), 1)
	assert.Len(t, b.TasksInColumn("Review"), 1)

	idx, ok := b.SelectedTaskIndex()
	require.True(t, ok, "loaded task in first column is selected")
	assert.Equal(t, 0, idx)
}

func TestBoardStore_LoadTrimsStatus(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{
		"columns": ["Todo", " Doing", "Done"],
		"tasks": [{"id": "a", "title": "A", "created_at": 1, "status": "Todo "}]}`), 0o644))

	b, err := store.Load(context.Background(), defaultColumns)
	require.NoError(t, err)
	assert.Equal(t, defaultColumns, b.Columns())
	assert.Len(t, b.TasksInColumn("Todo"), 1)
}

func TestBoardStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"tasks": [`},
		{name: "tasks missing", content: `{"columns": []}`},
		{name: "wrong type", content: `{"tasks": [{"id": "a", "title": "A", "created_at": "yesterday", "status": "Todo"}]}`},
		{name: "blank status", content: `{"tasks": [{"id": "a", "title": "A", "created_at": 1, "status": ""}]}`},
		{name: "duplicate id", content: `{"tasks": [
			{"id": "a", "title": "A", "created_at": 1, "status": "Todo"},
			{"id": "a", "title": "B", "created_at": 1, "status": "Done"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, path := newTestStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := store.Load(context.Background(), defaultColumns)
			require.Error(t, err)
			assert.ErrorIs(t, err, board.ErrPersistence)
		})
	}
}

func TestValidateDocument_ReportsLocation(t *testing.T) {
	err := validateDocument(map[string]any{
		"tasks": []any{map[string]any{"id": "a", "title": "A", "created_at": 1.0}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/tasks/0")
}

func TestBoardStore_SaveUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewBoardStore(filepath.Join(blocker, "board.json"), testOpts()...)
	b, err := board.New(defaultColumns, testOpts()...)
	require.NoError(t, err)

	err = store.Save(context.Background(), b)
	require.Error(t, err)
	assert.ErrorIs(t, err, board.ErrPersistence)
}
