package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load("", dataDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"Todo", "Doing", "Done"}, cfg.Columns)
	assert.Equal(t, StorageJSON, cfg.Storage)
	assert.Equal(t, ThemeTokyoNight, cfg.TUI.Theme)
	assert.Equal(t, "2006-01-02", cfg.DateFormat)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "board.json"), cfg.BoardPath())
	assert.Equal(t, filepath.Join(dataDir, "kanban.log"), cfg.LogFile())

	for _, action := range Actions {
		assert.NotEmpty(t, cfg.Keybindings[action], "action %s has default keys", action)
	}
}

func TestDefaultConfig_Keybindings(t *testing.T) {
	cfg := DefaultConfig()
	for _, action := range Actions {
		assert.NotEmpty(t, cfg.Keybindings[action], "action %s has default keys", action)
	}

	cfg.Keybindings[ActionQuit][0] = "x"
	cfg.Keybindings[ActionAdd] = nil

	fresh := DefaultConfig()
	assert.Equal(t, []string{"q", "ctrl+c"}, fresh.Keybindings[ActionQuit], "defaults are copied, not shared")
	assert.Equal(t, []string{"a"}, fresh.Keybindings[ActionAdd])
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "nope.yaml"), dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Columns, cfg.Columns)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
columns: [Backlog, Todo, Doing, Review, Done]
storage: sqlite
tui:
  theme: gruvbox
keybindings:
  move_forward: ["m"]
`)

	cfg, err := Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"Backlog", "Todo", "Doing", "Review", "Done"}, cfg.Columns)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, ThemeGruvbox, cfg.TUI.Theme)
	assert.Equal(t, filepath.Join(dir, "board.db"), cfg.BoardPath())
	assert.Equal(t, []string{"m"}, cfg.Keybindings[ActionMoveForward])
	assert.Equal(t, []string{"backspace", "H"}, cfg.Keybindings[ActionMoveBackward], "unset actions keep defaults")
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
columns = ["A", "B"]
board_file = "/tmp/custom.json"
date_format = "02 Jan"

[tui]
theme = "gruvbox"

[keybindings]
quit = ["x"]
`)

	cfg, err := Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, cfg.Columns)
	assert.Equal(t, "/tmp/custom.json", cfg.BoardPath())
	assert.Equal(t, "02 Jan", cfg.DateFormat)
	assert.Equal(t, ThemeGruvbox, cfg.TUI.Theme)
	assert.Equal(t, []string{"x"}, cfg.Keybindings[ActionQuit])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "malformed yaml", content: "columns: [", wantErr: "parse config file"},
		{name: "duplicate columns", content: "columns: [A, A]", wantErr: "invalid config"},
		{name: "unknown storage", content: "storage: postgres", wantErr: "invalid config"},
		{name: "unknown action", content: "keybindings:\n  fly: [f]", wantErr: "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "config.yaml", tt.content)

			_, err := Load(path, dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load("", dir)
	require.NoError(t, err)
	cfg.Keybindings[ActionAdd] = []string{"n"}

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "add:")
	assert.NotContains(t, string(data), "move_forward", "default bindings are omitted")

	path := writeFile(t, dir, "config.yaml", string(data))
	loaded, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Columns, loaded.Columns)
	assert.Equal(t, []string{"n"}, loaded.Keybindings[ActionAdd])
}
