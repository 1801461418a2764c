package redisclient

import (
	"context"
	"testing"
	"time"
)

// The startup path closes the client when the ping fails, before any
// connection was ever established. That must not error.
func TestCloseWithoutConnecting(t *testing.T) {
	c := New(Config{Addr: "127.0.0.1:1"})

	if err := c.Close(); err != nil {
		t.Fatalf("Close on an undialed client failed: %v", err)
	}
}

func TestPingUnreachableAddrFails(t *testing.T) {
	c := New(Config{Addr: "127.0.0.1:1"})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := c.Ping(ctx); err == nil {
		t.Fatal("expected ping against an unreachable address to fail")
	}
}
