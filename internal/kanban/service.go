// Package kanban wires the board model to its persistence backends and
// provides the operations shared by the CLI and the TUI.
package kanban

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/core/logging"
	"github.com/hay-kot/kanban/internal/store/csvfile"
)

// RecoverFunc moves an unreadable board file aside and returns the backup
// location.
type RecoverFunc func(path string, now time.Time) (string, error)

// BoardService wraps a board.Store with load recovery, change detection,
// CSV import/export and reporting.
type BoardService struct {
	store     board.Store
	path      string
	columns   []string
	recoverFn RecoverFunc
	now       func() time.Time
	log       zerolog.Logger

	mu    sync.Mutex
	stamp fileStamp
}

// ServiceOption configures a BoardService.
type ServiceOption func(*BoardService)

// WithRecovery sets how an unreadable board file is moved aside on Open.
// Without it, Open returns the load error.
func WithRecovery(fn RecoverFunc) ServiceOption {
	return func(s *BoardService) { s.recoverFn = fn }
}

// WithNow overrides the clock used for backups and overdue checks.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *BoardService) { s.now = now }
}

// NewBoardService creates a BoardService over store. path is the file the
// store persists to and columns the configured column order.
func NewBoardService(store board.Store, path string, columns []string, log zerolog.Logger, opts ...ServiceOption) *BoardService {
	s := &BoardService{
		store:   store,
		path:    path,
		columns: columns,
		now:     time.Now,
		log:     log.With().Str(logging.ComponentKey, "board-service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the board file location.
func (s *BoardService) Path() string {
	return s.path
}

// Columns returns the configured column order.
func (s *BoardService) Columns() []string {
	return s.columns
}

// Open loads the board. When the file cannot be read and recovery is
// configured, the file is moved aside and an empty board is returned with a
// warning describing what happened.
func (s *BoardService) Open(ctx context.Context) (*board.Board, []string, error) {
	b, err := s.store.Load(ctx, s.columns)
	if err == nil {
		s.remember()
		s.log.Debug().Int("tasks", b.Len()).Str("path", s.path).Msg("board loaded")
		return b, nil, nil
	}

	if !errors.Is(err, board.ErrPersistence) || s.recoverFn == nil {
		return nil, nil, err
	}

	s.log.Warn().Err(err).Str("path", s.path).Msg("board file unreadable, starting empty")

	backup, rerr := s.recoverFn(s.path, s.now())
	if rerr != nil {
		return nil, nil, fmt.Errorf("back up unreadable board: %w (load: %w)", rerr, err)
	}

	b, err2 := s.store.Load(ctx, s.columns)
	if err2 != nil {
		return nil, nil, fmt.Errorf("load board after recovery: %w", err2)
	}
	s.remember()

	warning := fmt.Sprintf("board file was unreadable and moved to %s; starting with an empty board", backup)
	return b, []string{warning}, nil
}

// Reload loads the board again without recovery. It is used after the file
// changed on disk.
func (s *BoardService) Reload(ctx context.Context) (*board.Board, error) {
	b, err := s.store.Load(ctx, s.columns)
	if err != nil {
		return nil, err
	}
	s.remember()
	return b, nil
}

// Save persists the board.
func (s *BoardService) Save(ctx context.Context, b *board.Board) error {
	if err := s.store.Save(ctx, b); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("save board")
		return err
	}
	s.remember()
	s.log.Debug().Int("tasks", b.Len()).Str("path", s.path).Msg("board saved")
	return nil
}

// Changed reports whether the board file differs from what this service
// last loaded or saved.
func (s *BoardService) Changed() bool {
	current := statFile(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()
	return current != s.stamp
}

func (s *BoardService) remember() {
	stamp := statFile(s.path)

	s.mu.Lock()
	s.stamp = stamp
	s.mu.Unlock()
}

// Export writes the board as CSV.
func (s *BoardService) Export(w io.Writer, b *board.Board) error {
	return csvfile.Export(w, b)
}

// Import merges CSV rows into the board.
func (s *BoardService) Import(r io.Reader, b *board.Board) (csvfile.ImportResult, error) {
	res, err := csvfile.Import(r, b)
	if err != nil {
		return res, err
	}

	s.log.Info().
		Int("added", len(res.Added)).
		Int("skipped", len(res.Skipped)).
		Strs("new_columns", res.NewColumns).
		Msg("csv imported")
	return res, nil
}

// Now returns the service clock's current time.
func (s *BoardService) Now() time.Time {
	return s.now()
}

type fileStamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

func statFile(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}

// BackupFile renames path to path.corrupt.<timestamp>.
func BackupFile(path string, now time.Time) (string, error) {
	backup := fmt.Sprintf("%s.corrupt.%s", path, now.Format("20060102-150405"))
	if err := os.Rename(path, backup); err != nil {
		return "", err
	}
	return backup, nil
}
