package session

import (
	"bufio"
	"io"
	"strings"
	"sync/atomic"
)

// LineReader decodes a byte stream into newline-delimited messages and
// delivers them, in arrival order, until the stream ends.
//
// Exactly one LineReader runs per session, on its own goroutine.  It
// shares nothing with the writer beyond the socket handle.
type LineReader struct {
	br      *bufio.Reader
	stop    atomic.Bool
	started atomic.Bool
	done    chan struct{}
}

// NewLineReader wraps r in a buffered line decoder.  The reader owns
// the read side of r until its loop ends.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		br:   bufio.NewReader(r),
		done: make(chan struct{}),
	}
}

// Start begins the background read loop.  onMessage is invoked exactly
// once per frame with the trailing newline stripped; onEnd is invoked
// exactly once when the loop stops: with nil on a clean end-of-stream
// (or after Stop), or with the read error otherwise.
//
// A partial line at end-of-stream without a trailing newline is
// delivered as a final complete message, not discarded.
//
// Start may be called at most once.
func (r *LineReader) Start(onMessage func(line string), onEnd func(err error)) {
	if !r.started.CompareAndSwap(false, true) {
		panic("session: LineReader started twice")
	}
	go r.loop(onMessage, onEnd)
}

func (r *LineReader) loop(onMessage func(string), onEnd func(error)) {
	defer close(r.done)

	for {
		line, err := r.br.ReadString('\n')
		if err == nil {
			onMessage(strings.TrimSuffix(line, "\n"))
			if r.stop.Load() {
				onEnd(nil)
				return
			}
			continue
		}

		if err == io.EOF {
			// Flush-on-EOF: the peer closed mid-line, deliver what we
			// have before signalling the end of the stream.
			if line != "" {
				onMessage(line)
			}
			onEnd(nil)
			return
		}

		if r.stop.Load() {
			onEnd(nil)
			return
		}
		onEnd(err)
		return
	}
}

// Stop requests the loop to exit at its next suspension point, i.e.
// after the current blocking read returns.  A read already in flight
// is only forced out by closing the underlying connection.
func (r *LineReader) Stop() {
	r.stop.Store(true)
}

// Done is closed once the read loop has fully exited and onEnd has
// been invoked.
func (r *LineReader) Done() <-chan struct{} {
	return r.done
}
