// Package testing provides shared helpers for control server tests.
package testing

import (
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/sanjay900/gadgetd/internal/gadget"
	"github.com/sanjay900/gadgetd/internal/server/ctl"
)

// StartCtlServer starts a control server on a free port and calls register
// so the caller can wire up the handlers needed for the test. Returns the
// address and a function to call when done.
func StartCtlServer(t *testing.T, g *gadget.Gadget, register func(r *ctl.Router, g *gadget.Gadget)) (addr string, done func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr = ln.Addr().String()
	_ = ln.Close()

	srv := ctl.New(addr, ctl.ServerConfig{Addr: addr}, slog.Default())
	if register != nil {
		register(srv.Router(), g)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("ctl start failed: %v", err)
	}

	done = func() {
		srv.Close()
		time.Sleep(10 * time.Millisecond)
	}
	return addr, done
}
