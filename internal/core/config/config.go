// Package config handles configuration loading and validation for kanban.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Storage backends for the board file.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// Built-in themes.
const (
	ThemeTokyoNight = "tokyo-night"
	ThemeGruvbox    = "gruvbox"
)

// Built-in action names for keybindings.
const (
	ActionPrevColumn   = "prev_column"
	ActionNextColumn   = "next_column"
	ActionPrevTask     = "prev_task"
	ActionNextTask     = "next_task"
	ActionMoveForward  = "move_forward"
	ActionMoveBackward = "move_backward"
	ActionAdd          = "add"
	ActionView         = "view"
	ActionSave         = "save"
	ActionHelp         = "help"
	ActionQuit         = "quit"
)

// Actions lists every bindable action in help display order.
var Actions = []string{
	ActionPrevColumn,
	ActionNextColumn,
	ActionPrevTask,
	ActionNextTask,
	ActionMoveForward,
	ActionMoveBackward,
	ActionAdd,
	ActionView,
	ActionSave,
	ActionHelp,
	ActionQuit,
}

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string][]string{
	ActionPrevColumn:   {"h", "left"},
	ActionNextColumn:   {"l", "right"},
	ActionPrevTask:     {"k", "up"},
	ActionNextTask:     {"j", "down"},
	ActionMoveForward:  {"enter", "L"},
	ActionMoveBackward: {"backspace", "H"},
	ActionAdd:          {"a"},
	ActionView:         {"v"},
	ActionSave:         {"ctrl+s"},
	ActionHelp:         {"?"},
	ActionQuit:         {"q", "ctrl+c"},
}

// Config holds the application configuration.
type Config struct {
	Columns     []string            `yaml:"columns"      toml:"columns"`
	BoardFile   string              `yaml:"board_file"   toml:"board_file"`
	Storage     string              `yaml:"storage"      toml:"storage"`
	DateFormat  string              `yaml:"date_format"  toml:"date_format"`
	TUI         TUIConfig           `yaml:"tui"          toml:"tui"`
	Keybindings map[string][]string `yaml:"keybindings"  toml:"keybindings"`
	DataDir     string              `yaml:"-"            toml:"-"` // set by caller, not from config file
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme" toml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults, including a private
// copy of the default keybindings.
func DefaultConfig() *Config {
	return &Config{
		Columns:     []string{"Todo", "Doing", "Done"},
		Storage:     StorageJSON,
		DateFormat:  "2006-01-02",
		TUI:         TUIConfig{Theme: ThemeTokyoNight},
		Keybindings: mergeKeybindings(defaultKeybindings, nil),
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
// Paths ending in .toml are decoded as TOML, everything else as YAML.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := decode(configPath, data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since decoding may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if len(c.Columns) == 0 {
		c.Columns = defaults.Columns
	}
	if c.Storage == "" {
		c.Storage = defaults.Storage
	}
	if c.DateFormat == "" {
		c.DateFormat = defaults.DateFormat
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings replace the default keys for the same action.
func mergeKeybindings(defaults, user map[string][]string) map[string][]string {
	result := make(map[string][]string, len(defaults)+len(user))

	for action, keys := range defaults {
		result[action] = slices.Clone(keys)
	}

	for action, keys := range user {
		result[action] = slices.Clone(keys)
	}

	return result
}

// BoardPath returns the board file location, defaulting to a file in the
// data directory named after the storage backend.
func (c *Config) BoardPath() string {
	if c.BoardFile != "" {
		return c.BoardFile
	}
	if c.Storage == StorageSQLite {
		return filepath.Join(c.DataDir, "board.db")
	}
	return filepath.Join(c.DataDir, "board.json")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "kanban.log")
}

// Marshal renders the configuration as YAML. Keybindings equal to the
// defaults are omitted so the written file stays short.
func (c *Config) Marshal() ([]byte, error) {
	out := *c
	out.Keybindings = nil
	for action, keys := range c.Keybindings {
		if equalKeys(defaultKeybindings[action], keys) {
			continue
		}
		if out.Keybindings == nil {
			out.Keybindings = map[string][]string{}
		}
		out.Keybindings[action] = keys
	}
	return yaml.Marshal(out)
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isValidAction(action string) bool {
	_, ok := defaultKeybindings[action]
	return ok
}

func isValidTheme(theme string) bool {
	switch theme {
	case ThemeTokyoNight, ThemeGruvbox:
		return true
	default:
		return false
	}
}

func isValidStorage(storage string) bool {
	switch storage {
	case StorageJSON, StorageSQLite:
		return true
	default:
		return false
	}
}
