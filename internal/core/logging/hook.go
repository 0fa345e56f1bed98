package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies board_file and command from the event context onto the
// log event. Events must be created with .Ctx(ctx) for the hook to see them.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if path := GetBoardFile(ctx); path != "" {
		e.Str("board_file", path)
	}

	if cmd := GetCommand(ctx); cmd != "" {
		e.Str("command", cmd)
	}
}
