// Package errors provides the error taxonomy for jackline sessions.
//
// The structured types carry which path failed (dial, read, or write)
// so callers can decide whether to retry, report, or tear down, and so
// the CLI can print useful diagnostics instead of bare strings.
package errors

import (
	"errors"
	"fmt"
	"io"
	"net"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrClosed is returned by any session operation attempted after
	// the session reached its terminal state.
	ErrClosed = errors.New("session is closed")

	// ErrNotConnected is returned when an operation requires an open
	// connection but the session has not been opened yet.
	ErrNotConnected = errors.New("not connected")
)

// ── Structured error types ───────────────────────────────────────────

// ConnectError reports a failed dial: refused, unreachable, DNS
// failure, or timeout.  Never retried internally.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ReadError reports an I/O failure on the receive path, distinct from
// a clean EOF.  Surfaced through the reader's end callback.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read: %v", e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports an I/O failure on the send path.  Surfaced
// synchronously from Send; does not by itself close the session.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write: %v", e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// ── Constructors ─────────────────────────────────────────────────────

// WrapConnect wraps a dial failure with the target address.
func WrapConnect(addr string, err error) *ConnectError {
	return &ConnectError{Addr: addr, Err: err}
}

// WrapRead wraps a receive-path failure.
func WrapRead(err error) *ReadError { return &ReadError{Err: err} }

// WrapWrite wraps a send-path failure.
func WrapWrite(err error) *WriteError { return &WriteError{Err: err} }

// ── Classification helpers ───────────────────────────────────────────

// IsClosed reports whether err means the socket or session is gone,
// whether we closed it or the runtime did.
func IsClosed(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrClosed) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}

// IsRetryable reports whether a dial is worth repeating.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConnectError
	if errors.As(err, &ce) {
		err = ce.Err
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Temporary() //nolint:staticcheck // Temporary is deprecated but still useful
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() //nolint:staticcheck
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }
