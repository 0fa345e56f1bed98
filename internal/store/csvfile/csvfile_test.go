package csvfile

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/kanban/internal/core/board"
)

var defaultColumns = []string{"Todo", "Doing", "Done"}

func newTestBoard(t *testing.T, prefix string) *board.Board {
	t.Helper()
	n := 0
	b, err := board.New(defaultColumns,
		board.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		board.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("%s-%d", prefix, n)
		}),
		board.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	return b
}

func TestExport(t *testing.T) {
	b := newTestBoard(t, "task")
	due := time.Unix(1741910400, 0)
	_, _ = b.AddTask("first", "first task", []string{"doc", "ui"}, &due)
	_, _ = b.AddTask("second", "has, comma", nil, nil)
	require.True(t, b.MoveTask(board.Forward))

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, b))

	want := strings.Join([]string{
		"id,status,tag,description,created_at,due_date",
		`task-2,Todo,,"has, comma",1700000000,`,
		`task-1,Doing,"doc, ui",first task,1700000000,1741910400`,
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRoundTrip(t *testing.T) {
	src := newTestBoard(t, "task")
	_, _ = src.AddTask("alpha", "alpha", []string{"doc"}, nil)
	_, _ = src.AddTask("beta", "beta", nil, nil)
	require.True(t, src.MoveTask(board.Forward))

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, src))

	dst := newTestBoard(t, "other")
	res, err := Import(&buf, dst)
	require.NoError(t, err)

	assert.Equal(t, []string{"task-2", "task-1"}, res.Added)
	assert.Empty(t, res.Skipped)
	assert.Empty(t, res.NewColumns)

	for _, want := range src.Tasks() {
		got, ok := dst.Task(want.ID)
		require.True(t, ok, "task %s imported", want.ID)
		assert.Equal(t, want.Status(), got.Status())
		assert.Equal(t, want.Description, got.Description)
		assert.Equal(t, want.Tags, got.Tags)
		assert.Equal(t, want.CreatedAt.Unix(), got.CreatedAt.Unix())
	}
}

func TestImport_TitleComesFromDescription(t *testing.T) {
	src := newTestBoard(t, "task")
	_, _ = src.AddTask("real title", "the description", nil, nil)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, src))

	dst := newTestBoard(t, "other")
	_, err := Import(&buf, dst)
	require.NoError(t, err)

	got, ok := dst.Task("task-1")
	require.True(t, ok)
	assert.Equal(t, "the description", got.Title, "csv carries no title")
}

func TestImport_TagContainingSeparatorIsSplit(t *testing.T) {
	src := newTestBoard(t, "task")
	_, _ = src.AddTask("t", "d", []string{"a, b"}, nil)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, src))

	dst := newTestBoard(t, "other")
	_, err := Import(&buf, dst)
	require.NoError(t, err)

	got, ok := dst.Task("task-1")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got.Tags)
}

func TestImport_MergeRules(t *testing.T) {
	dst := newTestBoard(t, "task")
	_, _ = dst.AddTask("existing", "", nil, nil)

	input := strings.Join([]string{
		"id,status,tag,description,created_at,due_date",
		"task-1,Done,,dupe,1,",
		"new-1,Blocked,x,fresh,2,3",
		"new-2,Blocked,,fresh too,4,",
	}, "\n")

	res, err := Import(strings.NewReader(input), dst)
	require.NoError(t, err)

	assert.Equal(t, []string{"new-1", "new-2"}, res.Added)
	assert.Equal(t, []string{"task-1"}, res.Skipped)
	assert.Equal(t, []string{"Blocked"}, res.NewColumns)
	assert.Equal(t, []string{"Todo", "Doing", "Done", "Blocked"}, dst.Columns())

	existing, ok := dst.Task("task-1")
	require.True(t, ok)
	assert.Equal(t, "Todo", existing.Status(), "existing task is untouched")

	imported, ok := dst.Task("new-1")
	require.True(t, ok)
	require.NotNil(t, imported.DueDate)
	assert.Equal(t, int64(3), imported.DueDate.Unix())
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "empty", input: "", wantErr: "empty"},
		{name: "wrong header", input: "id,title\n", wantErr: "header"},
		{name: "missing id", input: "id,status,tag,description,created_at,due_date\n,Todo,,d,1,\n", wantErr: "line 2: missing id"},
		{name: "bad created_at", input: "id,status,tag,description,created_at,due_date\na,Todo,,d,now,\n", wantErr: "line 2: created_at"},
		{name: "bad due_date", input: "id,status,tag,description,created_at,due_date\na,Todo,,d,1,soon\n", wantErr: "line 2: due_date"},
		{name: "field count", input: "id,status,tag,description,created_at,due_date\na,Todo\n", wantErr: "wrong number of fields"},
		{name: "duplicate id in file", input: "id,status,tag,description,created_at,due_date\na,Todo,,d,1,\na,Done,,e,2,\n", wantErr: `line 3: duplicate id "a" (first on line 2)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := newTestBoard(t, "task")

			_, err := Import(strings.NewReader(tt.input), dst)
			require.Error(t, err)
			assert.ErrorIs(t, err, board.ErrPersistence)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, 0, dst.Len(), "nothing placed on error")
		})
	}
}

func TestImport_MalformedRowLeavesBoardUntouched(t *testing.T) {
	dst := newTestBoard(t, "task")

	input := "id,status,tag,description,created_at,due_date\na,Todo,,ok,1,\nb,Todo,,bad,x,\n"
	_, err := Import(strings.NewReader(input), dst)
	require.Error(t, err)
	assert.Equal(t, 0, dst.Len())
}
