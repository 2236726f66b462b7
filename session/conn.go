// Package session implements a line-oriented TCP session: one
// exclusively-owned connection, a background reader delivering
// newline-framed messages in arrival order, and a serialized writer.
//
// A Session is the only type external callers interact with; the
// Connection, LineReader, and LineWriter it composes are exported so
// the pieces can be exercised and tested in isolation.
package session

import (
	"context"
	"net"
	"sync/atomic"

	jlerr "jackline/internal/errors"
	"jackline/internal/transport"
)

// Connection owns the raw socket for one session.  The handle is never
// reassigned after construction, only closed, so the reader and writer
// can use it concurrently without a lock around the handle itself.
type Connection struct {
	conn   net.Conn
	closed atomic.Bool
}

// Dial establishes a TCP stream through the given dialer.  Failures
// (refused, unreachable, DNS, timeout) are wrapped as ConnectError.
func Dial(ctx context.Context, d transport.Dialer, address string) (*Connection, error) {
	conn, err := d.Dial(ctx, "tcp", address)
	if err != nil {
		return nil, jlerr.WrapConnect(address, err)
	}
	return newConnection(conn), nil
}

func newConnection(conn net.Conn) *Connection {
	return &Connection{conn: conn}
}

// Close releases the socket.  It is idempotent: the first call closes
// the socket and unblocks any in-flight read or write; later calls
// return nil without touching the handle again.
func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}

// IsOpen is a non-blocking liveness query.  It reflects local closes
// only; a peer disconnect is observed by the reader, not here.
func (c *Connection) IsOpen() bool {
	return !c.closed.Load()
}

// RemoteAddr returns the peer address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
