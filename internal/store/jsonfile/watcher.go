package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 8
)

// FileEvent reports that the watched file changed on disk.
type FileEvent struct {
	Path      string
	Timestamp time.Time
}

// FileWatcher watches a single file for changes using fsnotify. The parent
// directory is watched instead of the file so that atomic replacement by
// rename is still observed.
type FileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	log     zerolog.Logger

	mu          sync.Mutex
	subscribers []chan<- FileEvent
	debounce    *time.Timer
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFileWatcher creates a watcher for path. The parent directory is created
// if it doesn't exist.
func NewFileWatcher(path string, log zerolog.Logger) (*FileWatcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw := &FileWatcher{
		path:    filepath.Clean(path),
		watcher: watcher,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	fw.wg.Add(1)
	go fw.run()

	return fw, nil
}

// Watch returns a channel that receives an event after each burst of changes
// to the file. The channel is closed when ctx is done or the watcher closes.
func (fw *FileWatcher) Watch(ctx context.Context) <-chan FileEvent {
	ch := make(chan FileEvent, eventBufferSize)

	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		close(ch)
		return ch
	}
	fw.subscribers = append(fw.subscribers, ch)
	fw.mu.Unlock()

	// Handle context cancellation to unsubscribe
	go func() {
		select {
		case <-ctx.Done():
			fw.unsubscribe(ch)
		case <-fw.ctx.Done():
			// Watcher is closing, channel will be closed by Close()
		}
	}()

	return ch
}

// Close stops watching and closes all subscriber channels.
func (fw *FileWatcher) Close() error {
	fw.cancel()

	fw.mu.Lock()
	if fw.debounce != nil {
		fw.debounce.Stop()
	}
	for _, ch := range fw.subscribers {
		close(ch)
	}
	fw.subscribers = nil
	fw.closed = true
	fw.mu.Unlock()

	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

func (fw *FileWatcher) unsubscribe(ch chan<- FileEvent) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for i, sub := range fw.subscribers {
		if sub == ch {
			fw.subscribers = append(fw.subscribers[:i], fw.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// run processes filesystem events from fsnotify.
func (fw *FileWatcher) run() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn().Err(err).Str("path", fw.path).Msg("file watcher error")
		}
	}
}

// handleEvent debounces writes, creates and renames of the watched file.
// Temp files written next to it are ignored.
func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	if filepath.Clean(event.Name) != fw.path {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return
	}
	if fw.debounce != nil {
		fw.debounce.Stop()
	}
	fw.debounce = time.AfterFunc(debounceDelay, fw.notifySubscribers)
}

func (fw *FileWatcher) notifySubscribers() {
	event := FileEvent{
		Path:      fw.path,
		Timestamp: time.Now(),
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return
	}

	for _, ch := range fw.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, drop event to prevent blocking
		}
	}
	fw.debounce = nil
}
