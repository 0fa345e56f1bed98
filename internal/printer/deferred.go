package printer

import (
	"bytes"
	"io"
	"sync"
)

// Deferred holds printed lines in memory while the terminal is owned by the
// board view and replays them once it exits. Safe for concurrent use.
type Deferred struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write stores data in the internal buffer.
func (d *Deferred) Write(p []byte) (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Write(p)
}

// Flush writes all buffered data to w and clears the buffer.
func (d *Deferred) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() == 0 {
		return nil
	}

	_, err := d.buf.WriteTo(w)
	return err
}
