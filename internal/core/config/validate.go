package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateColumns(),
		criterio.Run("storage", c.Storage, func(s string) error {
			if !isValidStorage(s) {
				return fmt.Errorf("unknown storage %q (want %s or %s)", s, StorageJSON, StorageSQLite)
			}
			return nil
		}),
		criterio.Run("tui.theme", c.TUI.Theme, func(s string) error {
			if !isValidTheme(s) {
				return fmt.Errorf("unknown theme %q", s)
			}
			return nil
		}),
		criterio.Run("date_format", c.DateFormat, func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("cannot be empty")
			}
			return nil
		}),
		c.validateKeybindings(),
	)
}

func (c *Config) validateColumns() error {
	if len(c.Columns) == 0 {
		return criterio.NewFieldErrors("columns", errors.New("at least one column is required"))
	}

	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool, len(c.Columns))
	for i, name := range c.Columns {
		field := fmt.Sprintf("columns[%d]", i)
		switch {
		case strings.TrimSpace(name) == "":
			errs = errs.Append(field, errors.New("column name cannot be blank"))
		case seen[name]:
			errs = errs.Append(field, fmt.Errorf("duplicate column %q", name))
		}
		seen[name] = true
	}
	return errs.ToError()
}

func (c *Config) validateKeybindings() error {
	var errs criterio.FieldErrorsBuilder

	actions := make([]string, 0, len(c.Keybindings))
	for action := range c.Keybindings {
		actions = append(actions, action)
	}
	slices.Sort(actions)

	for _, action := range actions {
		field := fmt.Sprintf("keybindings[%q]", action)
		if !isValidAction(action) {
			errs = errs.Append(field, fmt.Errorf("unknown action %q", action))
			continue
		}
		keys := c.Keybindings[action]
		if len(keys) == 0 {
			errs = errs.Append(field, errors.New("at least one key is required"))
			continue
		}
		for _, k := range keys {
			if strings.TrimSpace(k) == "" {
				errs = errs.Append(field, errors.New("key cannot be blank"))
			}
		}
	}
	return errs.ToError()
}

// ValidateDeep performs comprehensive validation of the configuration including
// file accessibility. The configPath argument specifies the config file location
// to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("board_file", c.BoardPath(), boardFileUsable),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Storage == StorageSQLite && strings.EqualFold(filepath.Ext(c.BoardPath()), ".json") {
		warnings = append(warnings, ValidationWarning{
			Category: "Storage",
			Item:     "board_file",
			Message:  "sqlite storage is configured with a .json board file",
		})
	}

	sample := time.Date(2019, time.November, 23, 0, 0, 0, 0, time.UTC)
	if c.DateFormat != "" && sample.Format(c.DateFormat) == c.DateFormat {
		warnings = append(warnings, ValidationWarning{
			Category: "Display",
			Item:     "date_format",
			Message:  fmt.Sprintf("%q contains no Go time layout elements", c.DateFormat),
		})
	}

	used := map[string]string{}
	for _, action := range Actions {
		for _, k := range c.Keybindings[action] {
			if other, ok := used[k]; ok {
				warnings = append(warnings, ValidationWarning{
					Category: "Keybindings",
					Item:     k,
					Message:  fmt.Sprintf("key is bound to both %s and %s", other, action),
				})
				continue
			}
			used[k] = action
		}
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// boardFileUsable validates that the board file is a regular file or absent,
// and that its parent is not a regular file.
func boardFileUsable(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("%s is a directory, not a file", path)
		}
		return nil
	case !os.IsNotExist(err):
		return fmt.Errorf("cannot access: %w", err)
	}

	parent := filepath.Dir(path)
	pinfo, err := os.Stat(parent)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access parent: %w", err)
	}
	if !pinfo.IsDir() {
		return fmt.Errorf("parent %s is not a directory", parent)
	}
	return nil
}
