package client

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"jackline/config"
	jlerr "jackline/internal/errors"
	"jackline/internal/transport"
	"jackline/util"
)

// syncBuffer is a goroutine-safe output sink; the banner and the
// reader callback write concurrently.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, buf *syncBuffer, substr string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(buf.String(), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output never contained %q; got:\n%s", substr, buf.String())
}

func testClient(cfg *config.Config, stdin io.Reader, stdout io.Writer) *Client {
	c := New(cfg, &transport.TCPDialer{Timeout: 2 * time.Second}, util.NewLogger(0))
	c.Stdin = stdin
	c.Stdout = stdout
	return c
}

func TestRunConnect_BannerAndInbound(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("WELCOME bidders\n"))
		// Hold the connection open until the client hangs up.
		io.Copy(io.Discard, conn)
	}()

	cfg := &config.Config{Host: "127.0.0.1", Port: port, NoDNS: true, Timeout: 2 * time.Second}
	pr, pw := io.Pipe()
	out := &syncBuffer{}
	c := testClient(cfg, pr, out)

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(context.Background()) }()

	waitForOutput(t, out, fmt.Sprintf("==== Connected to 127.0.0.1:%d ====", port))
	waitForOutput(t, out, ">>>> WELCOME bidders")

	pw.Close() // stdin EOF ends the run

	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after stdin EOF")
	}
}

func TestRunConnect_ForwardsStdin(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	received := make(chan string, 2)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			received <- sc.Text()
		}
	}()

	cfg := &config.Config{Host: "127.0.0.1", Port: port, NoDNS: true, Timeout: 2 * time.Second}
	c := testClient(cfg, strings.NewReader("REGISTER alice\nBID 42\n"), &syncBuffer{})

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{"REGISTER alice", "BID 42"} {
		select {
		case got := <-received:
			if got != want {
				t.Errorf("server got %q, want %q", got, want)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("server never received %q", want)
		}
	}
}

func TestRunConnect_Refused(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Host: "127.0.0.1", Port: port, NoDNS: true, Timeout: time.Second}
	c := testClient(cfg, strings.NewReader(""), &syncBuffer{})

	err = c.Run(context.Background())
	if err == nil {
		t.Fatal("expected connect error")
	}
	var ce *jlerr.ConnectError
	if !jlerr.As(err, &ce) {
		t.Fatalf("error %v is not a ConnectError", err)
	}
}

// flakyDialer fails the first dial, then hands out net.Pipe halves.
type flakyDialer struct {
	calls int
}

func (d *flakyDialer) Dial(_ context.Context, _, addr string) (net.Conn, error) {
	d.calls++
	if d.calls == 1 {
		return nil, fmt.Errorf("dial %s: simulated refusal", addr)
	}
	c, s := net.Pipe()
	go io.Copy(io.Discard, s)
	return c, nil
}

func (d *flakyDialer) Close() error { return nil }

func TestRunConnect_RetriesDial(t *testing.T) {
	cfg := &config.Config{Host: "127.0.0.1", Port: 1300, NoDNS: true, RetryAttempts: 3}
	d := &flakyDialer{}
	c := New(cfg, d, util.NewLogger(0))
	c.Stdin = strings.NewReader("")
	c.Stdout = &syncBuffer{}

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if d.calls != 2 {
		t.Errorf("dialer called %d times, want 2", d.calls)
	}
}

func TestRunConnect_BadHostWithNoDNS(t *testing.T) {
	cfg := &config.Config{Host: "auction.example.com", Port: 1300, NoDNS: true}
	c := testClient(cfg, strings.NewReader(""), &syncBuffer{})

	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected error for hostname with DNS disabled")
	}
}
