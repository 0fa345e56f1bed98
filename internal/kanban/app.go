package kanban

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/kanban/internal/core/board"
	"github.com/hay-kot/kanban/internal/core/config"
	"github.com/hay-kot/kanban/internal/core/logging"
	"github.com/hay-kot/kanban/internal/data/db"
	"github.com/hay-kot/kanban/internal/data/stores"
	"github.com/hay-kot/kanban/internal/store/jsonfile"
)

// App is the central entry point for all kanban operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config *config.Config
	Boards *BoardService

	// Warnings collects problems recovered from while opening storage.
	Warnings []string

	log     zerolog.Logger
	closers []func() error
}

// NewApp opens the configured storage backend and constructs an App.
func NewApp(cfg *config.Config, log zerolog.Logger, opts ...board.Option) (*App, error) {
	app := &App{Config: cfg, log: log}

	boardOpts := append([]board.Option{
		board.WithLogger(log.With().Str(logging.ComponentKey, "board").Logger()),
	}, opts...)

	path := cfg.BoardPath()

	switch cfg.Storage {
	case config.StorageSQLite:
		database, err := app.openDatabase(path)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, database.Close)
		app.Boards = NewBoardService(stores.NewBoardStore(database, boardOpts...), path, cfg.Columns, log)
	case config.StorageJSON:
		app.Boards = NewBoardService(
			jsonfile.NewBoardStore(path, boardOpts...), path, cfg.Columns, log,
			WithRecovery(BackupFile),
		)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	return app, nil
}

func (a *App) openDatabase(path string) (*db.DB, error) {
	opts := db.DefaultOpenOptions()
	opts.Logger = a.log.With().Str(logging.ComponentKey, "db").Logger()

	database, err := db.Open(path, opts)
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, fmt.Errorf("open board database: %w", err)
	}

	a.log.Warn().Err(err).Str("path", path).Msg("board database corrupt, recreating")

	backup, rerr := stores.RecoverFromCorruption(path, time.Now())
	if rerr != nil {
		return nil, fmt.Errorf("recover board database: %w", rerr)
	}
	a.Warnings = append(a.Warnings,
		fmt.Sprintf("board database was corrupt and moved to %s; starting with an empty board", backup))

	database, err = db.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open board database: %w", err)
	}
	return database, nil
}

// Open loads the board and returns any recovery warnings, including those
// raised while opening storage.
func (a *App) Open(ctx context.Context) (*board.Board, []string, error) {
	ctx = logging.WithBoardFile(ctx, a.Boards.Path())

	b, warnings, err := a.Boards.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		a.log.Warn().Ctx(ctx).Msg(w)
	}
	return b, append(append([]string{}, a.Warnings...), warnings...), nil
}

// WatchBoard watches the board file for changes made by other processes.
// The watcher is closed with the App.
func (a *App) WatchBoard(ctx context.Context) (<-chan jsonfile.FileEvent, error) {
	watcher, err := jsonfile.NewFileWatcher(a.Boards.Path(), a.log.With().Str(logging.ComponentKey, "watcher").Logger())
	if err != nil {
		return nil, fmt.Errorf("watch board file: %w", err)
	}
	a.closers = append(a.closers, watcher.Close)
	return watcher.Watch(ctx), nil
}

// Close releases storage handles and watchers.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
