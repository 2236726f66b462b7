package session

import (
	"bytes"
	"testing"
	"time"
)

// BenchmarkLineReader measures framing throughput over an in-memory
// stream of short auction commands.
func BenchmarkLineReader(b *testing.B) {
	var buf bytes.Buffer
	for i := 0; i < b.N; i++ {
		buf.WriteString("BID item=3 amount=17.25\n")
	}
	b.SetBytes(int64(len("BID item=3 amount=17.25\n")))
	b.ResetTimer()

	lr := NewLineReader(&buf)
	done := make(chan struct{})
	count := 0
	lr.Start(
		func(string) { count++ },
		func(error) { close(done) },
	)
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		b.Fatal("reader did not finish")
	}
	if count != b.N {
		b.Fatalf("delivered %d lines, want %d", count, b.N)
	}
}
