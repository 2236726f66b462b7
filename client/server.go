package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"

	jlerr "jackline/internal/errors"
	"jackline/session"
)

// runListen runs the listen (server) mode: every accepted connection
// becomes a line session whose inbound lines are printed tagged with
// the remote address, and every stdin line is broadcast to all
// connected clients.
func (c *Client) runListen(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", c.Config.LocalPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer ln.Close()

	c.Logger.Verbose("listening on %s (tcp)", ln.Addr())

	// Shut the listener down when the context expires.
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	h := newHub(c)
	defer h.CloseAll()

	go c.pumpBroadcast(ctx, h)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}

		c.Logger.Verbose("connection from %s", conn.RemoteAddr())
		sess := h.Attach(conn)

		if !c.Config.KeepOpen {
			// Single-client mode: serve this session until it ends.
			<-sess.Done()
			return nil
		}
	}
}

// pumpBroadcast forwards stdin lines to every connected session.
func (c *Client) pumpBroadcast(ctx context.Context, h *hub) {
	sc := bufio.NewScanner(c.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		h.Broadcast(sc.Text())
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// ── hub ──────────────────────────────────────────────────────────────

// hub tracks the live sessions of listen mode, keyed by remote
// address.  Sessions remove themselves when their reader ends.
type hub struct {
	c        *Client
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newHub(c *Client) *hub {
	return &hub{c: c, sessions: make(map[string]*session.Session)}
}

// Attach wraps an accepted connection in a session and registers it.
func (h *hub) Attach(conn net.Conn) *session.Session {
	remote := conn.RemoteAddr().String()

	sess := session.Attach(conn, session.Options{
		Logger:  h.c.Logger,
		Metrics: h.c.Metrics,
		OnMessage: func(line string) {
			h.c.printf("[%s] %s\n", remote, line)
		},
		OnClose: func(err error) {
			if err != nil {
				h.c.Logger.Warn("client %s: %v", remote, err)
			} else {
				h.c.Logger.Verbose("client %s disconnected", remote)
			}
			h.remove(remote)
		},
	})

	h.mu.Lock()
	h.sessions[remote] = sess
	h.mu.Unlock()
	return sess
}

// Broadcast sends line to every registered session, dropping the ones
// that have already closed.
func (h *hub) Broadcast(line string) {
	for remote, sess := range h.snapshot() {
		if err := sess.Send(line); err != nil {
			if jlerr.Is(err, jlerr.ErrClosed) {
				h.remove(remote)
				continue
			}
			h.c.Logger.Error("send to %s: %v", remote, err)
		}
	}
}

// CloseAll closes every registered session.
func (h *hub) CloseAll() {
	for _, sess := range h.snapshot() {
		sess.Close()
	}
}

func (h *hub) snapshot() map[string]*session.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]*session.Session, len(h.sessions))
	for k, v := range h.sessions {
		out[k] = v
	}
	return out
}

func (h *hub) remove(remote string) {
	h.mu.Lock()
	delete(h.sessions, remote)
	h.mu.Unlock()
}
