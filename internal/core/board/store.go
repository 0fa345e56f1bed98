package board

import "context"

// Store persists a board. Implementations receive their location explicitly
// so that tests can point them at temporary files.
type Store interface {
	// Load reads the board. columns is the configured column order; columns
	// and statuses found in storage but not configured are appended after
	// them. A missing store yields an empty board with the configured columns.
	// Unreadable or malformed data returns an error wrapping ErrPersistence.
	Load(ctx context.Context, columns []string) (*Board, error)

	// Save writes the full board, replacing what was stored before.
	Save(ctx context.Context, b *Board) error
}
