package session

import (
	"io"
	"strings"
	"sync"

	jlerr "jackline/internal/errors"
	"jackline/internal/metrics"
)

// LineWriter serializes caller-issued lines onto the wire.  Each Send
// is one blocking write under a mutex, so concurrent callers never
// interleave partial lines and per-caller order is preserved.
type LineWriter struct {
	mu      sync.Mutex
	conn    *Connection
	metrics *metrics.Collector
}

// NewLineWriter returns a writer bound to conn.  metrics may be nil.
func NewLineWriter(conn *Connection, m *metrics.Collector) *LineWriter {
	return &LineWriter{conn: conn, metrics: m}
}

// Send writes line as a single newline-terminated frame, appending the
// terminator if absent.  It blocks until the write syscall completes:
// on success the bytes were handed to the OS for transmission, which
// does not guarantee peer receipt.
//
// Returns ErrClosed when the connection is no longer open and a
// WriteError on any other I/O failure.
func (w *LineWriter) Send(line string) error {
	if !w.conn.IsOpen() {
		return jlerr.ErrClosed
	}

	payload := len(line)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	} else {
		payload--
	}

	w.mu.Lock()
	_, err := io.WriteString(w.conn.conn, line)
	w.mu.Unlock()

	if err != nil {
		if jlerr.IsClosed(err) {
			return jlerr.ErrClosed
		}
		return jlerr.WrapWrite(err)
	}

	w.metrics.LineSent(payload)
	return nil
}
