// Package logging provides component loggers and context fields shared by
// the CLI, services and TUI.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey is the field naming the subsystem that wrote a log line.
const ComponentKey = "component"

// Component derives a logger for the named subsystem from the global logger.
func Component(name string) zerolog.Logger {
	return log.With().Str(ComponentKey, name).Logger()
}
