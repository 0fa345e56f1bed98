package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/core/config"
	"github.com/hay-kot/kanban/internal/kanban"
	"github.com/hay-kot/kanban/internal/printer"
)

type testEnv struct {
	flags *Flags
	app   *kanban.App
	dir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg, err := config.Load("", dir)
	require.NoError(t, err)

	app, err := kanban.NewApp(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	return &testEnv{
		flags: &Flags{
			Config:     cfg,
			ConfigPath: filepath.Join(dir, "config.yaml"),
			DataDir:    dir,
		},
		app: app,
		dir: dir,
	}
}

// run executes one command line against a fresh root command and returns
// what was written to stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	root := &cli.Command{
		Name:           "kanban",
		Writer:         &buf,
		ErrWriter:      io.Discard,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	add := NewAddCmd(e.flags, e.app)
	add.isTerminal = func() bool { return false }

	add.Register(root)
	NewInitCmd(e.flags, e.app).Register(root)
	NewMoveCmd(e.flags, e.app).Register(root)
	NewLsCmd(e.flags, e.app).Register(root)
	NewTagsCmd(e.flags, e.app).Register(root)
	NewStatsCmd(e.flags, e.app).Register(root)
	NewExportCmd(e.flags, e.app).Register(root)
	NewImportCmd(e.flags, e.app).Register(root)
	NewConfigValidateCmd(e.flags).Register(root)

	ctx := printer.NewContext(context.Background(), printer.New(io.Discard))
	err := root.Run(ctx, append([]string{"kanban"}, args...))
	return buf.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "kanban %s", strings.Join(args, " "))
	return out
}

func (e *testEnv) board(t *testing.T) *board.Board {
	t.Helper()
	b, _, err := e.app.Open(context.Background())
	require.NoError(t, err)
	return b
}

func TestAdd(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "--title", "Write docs", "--description", "all of them",
		"--tag", "doc,ui", "--tag", "doc", "--due", "2025-03-14")
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	task, ok := env.board(t).Task(id)
	require.True(t, ok)
	assert.Equal(t, "Write docs", task.Title)
	assert.Equal(t, "all of them", task.Description)
	assert.Equal(t, []string{"doc", "ui"}, task.Tags)
	assert.Equal(t, config.DefaultConfig().Columns[0], task.Status())
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2025-03-14", task.DueDate.Format("2006-01-02"))
}

func TestAdd_Status(t *testing.T) {
	env := newTestEnv(t)
	columns := env.flags.Config.Columns

	id := strings.TrimSpace(env.mustRun(t, "add", "-t", "review", "--status", columns[1]))
	task, ok := env.board(t).Task(id)
	require.True(t, ok)
	assert.Equal(t, columns[1], task.Status())
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown status", []string{"add", "-t", "x", "--status", "Nowhere"}},
		{"invalid due date", []string{"add", "-t", "x", "--due", "garbage"}},
		{"missing title without terminal", []string{"add", "--description", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.run(t, tt.args...)
			require.ErrorIs(t, err, board.ErrInvalidInput)
			assert.Equal(t, 0, env.board(t).Len(), "board is unchanged")
		})
	}
}

func TestMove(t *testing.T) {
	env := newTestEnv(t)
	columns := env.flags.Config.Columns

	id := strings.TrimSpace(env.mustRun(t, "add", "-t", "ship"))

	out := env.mustRun(t, "move", id)
	assert.Equal(t, columns[1], strings.TrimSpace(out))

	task, _ := env.board(t).Task(id)
	assert.Equal(t, columns[1], task.Status())

	out = env.mustRun(t, "move", "--back", id[:8])
	assert.Equal(t, columns[0], strings.TrimSpace(out), "short id prefix resolves")

	out = env.mustRun(t, "move", "--back", id)
	assert.Empty(t, out, "moving before the first column is a no-op")

	task, _ = env.board(t).Task(id)
	assert.Equal(t, columns[0], task.Status())
}

func TestMove_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "move")
	require.ErrorIs(t, err, board.ErrInvalidInput)

	_, err = env.run(t, "move", "does-not-exist")
	require.ErrorIs(t, err, board.ErrNotFound)
}

func TestFindTask(t *testing.T) {
	b, err := board.New([]string{"Todo"})
	require.NoError(t, err)
	require.NoError(t, b.Place("Todo", board.Task{ID: "abc123", Title: "one"}))
	require.NoError(t, b.Place("Todo", board.Task{ID: "abc456", Title: "two"}))
	require.NoError(t, b.Place("Todo", board.Task{ID: "abc", Title: "exact"}))

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr error
	}{
		{name: "exact match wins over prefix", id: "abc", want: "exact"},
		{name: "unique prefix", id: "abc1", want: "one"},
		{name: "ambiguous prefix", id: "ab", wantErr: board.ErrInvalidInput},
		{name: "no match", id: "zzz", wantErr: board.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findTask(b, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Title)
		})
	}
}

func TestLs(t *testing.T) {
	env := newTestEnv(t)
	columns := env.flags.Config.Columns

	out := env.mustRun(t, "ls")
	assert.Empty(t, out)

	first := strings.TrimSpace(env.mustRun(t, "add", "-t", "first", "--tag", "doc", "--due", "2025-03-14"))
	second := strings.TrimSpace(env.mustRun(t, "add", "-t", "second", "--status", columns[1]))

	out = env.mustRun(t, "ls")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "STATUS")
	assert.Contains(t, lines[1], columns[0])
	assert.Contains(t, lines[1], first[:8])
	assert.Contains(t, lines[1], "first")
	assert.Contains(t, lines[1], "doc")
	assert.Contains(t, lines[1], "2025-03-14")
	assert.Contains(t, lines[2], columns[1])
	assert.Contains(t, lines[2], second[:8])
}

func TestLs_TagFilter(t *testing.T) {
	env := newTestEnv(t)
	tagged := strings.TrimSpace(env.mustRun(t, "add", "-t", "tagged", "--tag", "ui,core"))
	env.mustRun(t, "add", "-t", "plain", "--tag", "docs")

	out := env.mustRun(t, "ls", "--tag", "core")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], tagged[:8])
	assert.NotContains(t, out, "plain")

	out = env.mustRun(t, "ls", "--tag", "missing")
	assert.Empty(t, out)
}

func TestLs_JSON(t *testing.T) {
	env := newTestEnv(t)
	id := strings.TrimSpace(env.mustRun(t, "add", "-t", "first"))

	out := env.mustRun(t, "ls", "--json")

	var infos []taskInfo
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var info taskInfo
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &info))
		infos = append(infos, info)
	}

	require.Len(t, infos, 1)
	assert.Equal(t, id, infos[0].ID)
	assert.Equal(t, "first", infos[0].Title)
	assert.Equal(t, env.flags.Config.Columns[0], infos[0].Status)
	assert.Equal(t, []string{}, infos[0].Tags)
	assert.Nil(t, infos[0].DueDate)
}

func TestTags(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "-t", "a", "--tag", "ui,core")
	env.mustRun(t, "add", "-t", "b", "--tag", "docs,ui")

	out := env.mustRun(t, "tags")
	assert.Equal(t, "ui\ncore\ndocs\n", out)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	columns := env.flags.Config.Columns

	env.mustRun(t, "add", "-t", "a", "--due", "2001-01-01")
	env.mustRun(t, "add", "-t", "b")
	env.mustRun(t, "add", "-t", "c", "--status", columns[1])

	out := env.mustRun(t, "stats", "--json")

	var stats kanban.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Len(t, stats.Columns, len(columns))
	assert.Equal(t, 2, stats.Columns[0].Count)
	assert.Equal(t, 1, stats.Columns[0].Overdue)
	assert.Equal(t, 1, stats.Columns[1].Count)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Overdue)

	out = env.mustRun(t, "stats")
	assert.Contains(t, out, "COLUMN")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, columns[1])
}

func TestExportImport(t *testing.T) {
	src := newTestEnv(t)
	src.mustRun(t, "add", "-t", "first", "-d", "first task", "--tag", "doc")
	src.mustRun(t, "add", "-t", "second", "-d", "second task")

	csvOut := src.mustRun(t, "export")
	assert.True(t, strings.HasPrefix(csvOut, "id,status,tag,description,created_at,due_date\n"))

	file := filepath.Join(src.dir, "export.csv")
	out := src.mustRun(t, "export", "--out", file)
	assert.Empty(t, out)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, csvOut, string(data))

	dst := newTestEnv(t)
	dst.mustRun(t, "import", "--file", file)

	b := dst.board(t)
	require.Equal(t, 2, b.Len())
	for _, task := range b.Tasks() {
		assert.Equal(t, task.Description, task.Title, "imported titles come from the description")
	}

	dst.mustRun(t, "import", "--file", file)
	assert.Equal(t, 2, dst.board(t).Len(), "re-importing skips known ids")
}

func TestImport_InvalidFileLeavesBoard(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "-t", "keep")

	file := filepath.Join(env.dir, "bad.csv")
	require.NoError(t, os.WriteFile(file, []byte("not,the,right,header\n"), 0o644))

	_, err := env.run(t, "import", "--file", file)
	require.Error(t, err)
	assert.Equal(t, 1, env.board(t).Len())
}

func TestConfigValidate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "config", "validate")
	require.NoError(t, err)

	out := env.mustRun(t, "config", "validate", "--format", "json")

	var result struct {
		Valid  bool              `json:"valid"`
		Errors []validationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestConfigValidate_Invalid(t *testing.T) {
	env := newTestEnv(t)
	env.flags.Config.Columns = []string{"Todo", "Todo"}

	out, err := env.run(t, "config", "validate", "--format", "json")
	require.Error(t, err)

	var result struct {
		Valid  bool              `json:"valid"`
		Errors []validationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun(t, "init", "--yes")

	data, err := os.ReadFile(env.flags.ConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "columns")

	_, err = os.Stat(env.app.Boards.Path())
	require.NoError(t, err, "init creates the board file")

	_, err = env.run(t, "init", "--yes")
	require.Error(t, err, "existing config needs --force")

	require.NoError(t, os.WriteFile(env.flags.ConfigPath, []byte("# mine\n"), 0o644))
	env.mustRun(t, "init", "--yes", "--force")

	backup, err := os.ReadFile(env.flags.ConfigPath + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(backup))
}

func TestInit_KeepsExistingBoard(t *testing.T) {
	env := newTestEnv(t)
	id := strings.TrimSpace(env.mustRun(t, "add", "-t", "keep me"))

	env.mustRun(t, "init", "--yes")

	_, ok := env.board(t).Task(id)
	assert.True(t, ok)
}

func TestWriteConfig_Loadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	backup, err := writeConfig(path)
	require.NoError(t, err)
	assert.Empty(t, backup)

	cfg, err := config.Load(path, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Columns, cfg.Columns)
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	assert.Equal(t, filepath.Join("/tmp/cfg", "kanban", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/tmp/data", "kanban"), DefaultDataDir())
}
