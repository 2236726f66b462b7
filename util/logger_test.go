package util

import (
	"bytes"
	"strings"
	"testing"
)

func capture(verbosity int) (*Logger, *bytes.Buffer) {
	l := NewLogger(verbosity)
	buf := &bytes.Buffer{}
	l.SetOutput(buf)
	return l, buf
}

func TestLogger_QuietSuppressesInfo(t *testing.T) {
	l, buf := capture(0)

	l.Info("registration open")
	l.Warn("slow client")
	l.Verbose("details")
	l.Debug("internals")

	if got := buf.String(); got != "" {
		t.Errorf("quiet logger produced output: %q", got)
	}
}

func TestLogger_ErrorAlwaysPrints(t *testing.T) {
	l, buf := capture(0)

	l.Error("socket lost: %s", "EOF")
	if !strings.Contains(buf.String(), "socket lost: EOF") {
		t.Errorf("error not printed: %q", buf.String())
	}
}

func TestLogger_NormalLevel(t *testing.T) {
	l, buf := capture(1)

	l.Info("connected to %s", "127.0.0.1:1300")
	l.Verbose("should be hidden")

	out := buf.String()
	if !strings.Contains(out, "connected to 127.0.0.1:1300") {
		t.Errorf("info not printed: %q", out)
	}
	if strings.Contains(out, "should be hidden") {
		t.Errorf("verbose leaked at level 1: %q", out)
	}
}

func TestLogger_VerboseLevel(t *testing.T) {
	l, buf := capture(2)

	l.Verbose("dialing %s", "127.0.0.1:1300")
	l.Debug("should be hidden")

	out := buf.String()
	if !strings.Contains(out, "dialing 127.0.0.1:1300") {
		t.Errorf("verbose not printed: %q", out)
	}
	if strings.Contains(out, "should be hidden") {
		t.Errorf("debug leaked at level 2: %q", out)
	}
}

func TestLogger_DebugLevel(t *testing.T) {
	l, buf := capture(3)

	l.Debug("raw frame: %q", "BID 42\n")
	if !strings.Contains(buf.String(), "raw frame") {
		t.Errorf("debug not printed: %q", buf.String())
	}
}

func TestLogger_Verbosity(t *testing.T) {
	if got := NewLogger(2).Verbosity(); got != 2 {
		t.Errorf("Verbosity = %d, want 2", got)
	}
}
