package session

import (
	"context"
	"fmt"
	"net"
	"sync"

	jlerr "jackline/internal/errors"
	"jackline/internal/metrics"
	"jackline/internal/transport"
	"jackline/util"
)

// State is the lifecycle position of a Session.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Options configures a Session.  Zero values are usable: a plain TCP
// dialer, a quiet logger, no metrics, and no callbacks.
type Options struct {
	Dialer  transport.Dialer
	Logger  *util.Logger
	Metrics *metrics.Collector

	// OnMessage receives each inbound line, newline stripped, in wire
	// arrival order, from the session's reader goroutine.  It must not
	// block indefinitely: the next line is not read until it returns.
	OnMessage func(line string)

	// OnClose fires exactly once when a connected session ends: nil
	// after a clean peer EOF or a local Close, the ReadError otherwise.
	OnClose func(err error)
}

// Session composes a Connection, a LineReader, and a LineWriter and
// coordinates their startup and shutdown.
//
// Lifecycle: Disconnected → Connecting → Connected → Closing → Closed.
// A failed Open returns to Disconnected so the caller may retry;
// Closed is terminal and every later operation fails with ErrClosed.
type Session struct {
	addr string
	opts Options

	mu           sync.Mutex
	state        State
	conn         *Connection
	reader       *LineReader
	writer       *LineWriter
	closedByUser bool

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a session targeting addr.  No I/O happens until Open.
func New(addr string, opts Options) *Session {
	if opts.Dialer == nil {
		opts.Dialer = &transport.TCPDialer{}
	}
	if opts.Logger == nil {
		opts.Logger = util.NewLogger(0)
	}
	return &Session{
		addr: addr,
		opts: opts,
		done: make(chan struct{}),
	}
}

// Attach wraps an already-established connection (typically one
// returned by Accept) in a Session and starts its reader immediately.
func Attach(conn net.Conn, opts Options) *Session {
	s := New(conn.RemoteAddr().String(), opts)

	s.mu.Lock()
	s.bindLocked(newConnection(conn))
	reader := s.reader
	s.mu.Unlock()

	s.opts.Metrics.ConnectionOpened()
	reader.Start(s.deliver, s.readerDone)
	return s
}

// Open dials the remote address and, on success, starts the reader and
// makes Send available.  Valid only while Disconnected; a dial failure
// returns a ConnectError and leaves the session Disconnected.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateDisconnected:
	case StateClosing, StateClosed:
		s.mu.Unlock()
		return jlerr.ErrClosed
	default:
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("open %s: session already %s", s.addr, st)
	}
	s.state = StateConnecting
	s.mu.Unlock()

	s.opts.Logger.Verbose("connecting to %s", s.addr)
	conn, err := Dial(ctx, s.opts.Dialer, s.addr)

	s.mu.Lock()
	if s.state != StateConnecting {
		// Close raced the dial: finish the teardown it started.
		s.state = StateClosed
		s.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		s.finish()
		return jlerr.ErrClosed
	}
	if err != nil {
		s.state = StateDisconnected
		s.mu.Unlock()
		s.opts.Metrics.RecordError(err.Error())
		return err
	}
	s.bindLocked(conn)
	reader := s.reader
	s.mu.Unlock()

	s.opts.Metrics.ConnectionOpened()
	s.opts.Logger.Verbose("connected to %s", conn.RemoteAddr())
	reader.Start(s.deliver, s.readerDone)
	return nil
}

// bindLocked installs the connection and its reader/writer pair.
// Callers hold s.mu.
func (s *Session) bindLocked(conn *Connection) {
	s.conn = conn
	s.reader = NewLineReader(conn.conn)
	s.writer = NewLineWriter(conn, s.opts.Metrics)
	s.state = StateConnected
}

// Send writes one outbound line.  Fails with ErrNotConnected before
// Open succeeds and with ErrClosed once the session is closing or
// closed; a send failure does not by itself close the session.
func (s *Session) Send(line string) error {
	s.mu.Lock()
	st := s.state
	w := s.writer
	s.mu.Unlock()

	switch st {
	case StateConnected:
	case StateDisconnected, StateConnecting:
		return jlerr.ErrNotConnected
	default:
		return jlerr.ErrClosed
	}

	if err := w.Send(line); err != nil {
		s.opts.Metrics.RecordError(err.Error())
		return err
	}
	return nil
}

// Close ends the session.  Idempotent and safe to call concurrently
// with in-flight reads and writes: closing the socket unblocks both
// within the platform's close latency.  When it returns, the reader
// has exited and OnClose (if any) has fired.
func (s *Session) Close() error {
	s.mu.Lock()
	switch s.state {
	case StateClosed:
		s.mu.Unlock()
		return nil
	case StateDisconnected:
		s.state = StateClosed
		s.mu.Unlock()
		s.finish()
		return nil
	case StateConnecting:
		// The dial is still in flight; Open observes the state change
		// and finishes the teardown when it returns.
		s.state = StateClosing
		s.mu.Unlock()
		return nil
	case StateClosing:
		s.mu.Unlock()
		<-s.done
		return nil
	}

	// Connected: stop accepting sends, release the socket so the
	// blocked read unblocks, then join the reader.
	s.state = StateClosing
	s.closedByUser = true
	conn, reader := s.conn, s.reader
	s.mu.Unlock()

	reader.Stop()
	conn.Close()
	<-reader.Done()
	return nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the target address the session was created with.
func (s *Session) Addr() string { return s.addr }

// RemoteAddr returns the connected peer address, or nil before Open.
func (s *Session) RemoteAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.RemoteAddr()
}

// Done is closed once the session has reached its terminal state.
func (s *Session) Done() <-chan struct{} { return s.done }

// deliver is the reader's onMessage hook.
func (s *Session) deliver(line string) {
	s.opts.Metrics.LineReceived(len(line))
	if s.opts.OnMessage != nil {
		s.opts.OnMessage(line)
	}
}

// readerDone runs on the reader goroutine when its loop ends, for any
// reason: peer EOF, read error, or our own Close.  It drives the
// Closing → Closed transition and fires OnClose exactly once.
func (s *Session) readerDone(err error) {
	s.mu.Lock()
	byUser := s.closedByUser
	s.state = StateClosing
	conn := s.conn
	s.mu.Unlock()

	// Release the socket so in-flight writes fail fast with ErrClosed.
	conn.Close()

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	s.opts.Metrics.ConnectionClosed()

	switch {
	case err == nil && !byUser:
		s.opts.Logger.Verbose("%s closed the connection", s.addr)
	case byUser || jlerr.IsClosed(err):
		// A read unblocked by our own Close is a clean local shutdown.
		err = nil
	case err != nil:
		err = jlerr.WrapRead(err)
		s.opts.Metrics.RecordError(err.Error())
		s.opts.Logger.Debug("session %s: %v", s.addr, err)
	}

	if s.opts.OnClose != nil {
		s.opts.OnClose(err)
	}
	s.finish()
}

func (s *Session) finish() {
	s.doneOnce.Do(func() { close(s.done) })
}
