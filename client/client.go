// Package client implements the interactive front end: a connect mode
// that bridges stdin/stdout to a line session, and a listen mode that
// accepts line clients and broadcasts stdin to all of them.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"jackline/config"
	jlerr "jackline/internal/errors"
	"jackline/internal/metrics"
	"jackline/internal/retry"
	"jackline/internal/transport"
	"jackline/session"
	"jackline/util"
)

// inboundPrefix visually separates server messages from local input.
const inboundPrefix = ">>>> "

// Client orchestrates a single jackline run.
type Client struct {
	Config  *config.Config
	Dialer  transport.Dialer
	Logger  *util.Logger
	Metrics *metrics.Collector

	// Stdin and Stdout default to the process streams; tests inject
	// buffers and pipes instead.
	Stdin  io.Reader
	Stdout io.Writer

	outMu sync.Mutex
}

// New returns a ready-to-run Client bound to the process streams.
func New(cfg *config.Config, dialer transport.Dialer, logger *util.Logger) *Client {
	return &Client{
		Config:  cfg,
		Dialer:  dialer,
		Logger:  logger,
		Metrics: metrics.New(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
	}
}

// Run dispatches to the correct mode.
func (c *Client) Run(ctx context.Context) error {
	if c.Config.Listen {
		return c.runListen(ctx)
	}
	return c.runConnect(ctx)
}

// printf serializes writes to Stdout; the banner and the reader
// callback print from different goroutines.
func (c *Client) printf(format string, args ...interface{}) {
	c.outMu.Lock()
	fmt.Fprintf(c.Stdout, format, args...)
	c.outMu.Unlock()
}

// ── connect mode ─────────────────────────────────────────────────────

func (c *Client) runConnect(ctx context.Context) error {
	addr, err := util.ResolveAddr(c.Config.Host, c.Config.Port, c.Config.NoDNS)
	if err != nil {
		return err
	}

	sess := session.New(addr, session.Options{
		Dialer:  c.Dialer,
		Logger:  c.Logger,
		Metrics: c.Metrics,
		OnMessage: func(line string) {
			c.printf("%s%s\n", inboundPrefix, line)
		},
		OnClose: func(err error) {
			if err != nil {
				c.Logger.Error("connection lost: %v", err)
			}
		},
	})

	if err := c.open(ctx, sess); err != nil {
		return err
	}
	defer sess.Close()

	c.printf("==== Connected to %s ====\n", addr)

	lines := make(chan string)
	go c.pumpStdin(lines, sess.Done())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sess.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// stdin EOF ends the run, mirroring the interactive
				// loop's behavior.
				return nil
			}
			if err := sess.Send(line); err != nil {
				if jlerr.Is(err, jlerr.ErrClosed) || jlerr.Is(err, jlerr.ErrNotConnected) {
					c.Logger.Warn("send %q: %v", line, err)
					return nil
				}
				// A write failure does not force the session closed;
				// report it and keep reading input.
				c.Logger.Error("send: %v", err)
			}
		}
	}
}

// open dials, retrying with exponential backoff when --retry asks for
// more than one attempt.  A failed Open leaves the session in the
// disconnected state, so retrying Open is always valid.
func (c *Client) open(ctx context.Context, sess *session.Session) error {
	attempts := c.Config.RetryAttempts
	if attempts <= 1 {
		return sess.Open(ctx)
	}

	b := &retry.Backoff{
		InitialDelay: config.DefaultRetryDelay,
		MaxDelay:     config.DefaultMaxRetryBackoff,
		MaxAttempts:  attempts,
		Jitter:       true,
	}
	return b.Do(ctx, func(attempt int) error {
		if attempt > 1 {
			c.Logger.Info("connect attempt %d/%d to %s", attempt, attempts, sess.Addr())
		}
		return sess.Open(ctx)
	})
}

// pumpStdin forwards stdin lines to the channel until EOF or the
// session ends.
func (c *Client) pumpStdin(lines chan<- string, done <-chan struct{}) {
	sc := bufio.NewScanner(c.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-done:
			return
		}
	}
	close(lines)
}
