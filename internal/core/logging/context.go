package logging

import "context"

type contextKey string

const (
	boardFileKey contextKey = "board_file"
	commandKey   contextKey = "command"
)

// WithBoardFile records the board file being operated on.
func WithBoardFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, boardFileKey, path)
}

// WithCommand records the CLI command that is running.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// GetBoardFile returns the board file from the context, or "".
func GetBoardFile(ctx context.Context) string {
	if v, ok := ctx.Value(boardFileKey).(string); ok {
		return v
	}
	return ""
}

// GetCommand returns the command name from the context, or "".
func GetCommand(ctx context.Context) string {
	if v, ok := ctx.Value(commandKey).(string); ok {
		return v
	}
	return ""
}
