// Package ctlclient implements the low-level gadgetd control protocol used
// by the CLI subcommands and tests.
package ctlclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// Config controls low-level transport behavior such as timeouts.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Transport is the low-level control protocol implementation.
// Request framing: `<path>[ SP <payload>] \x00` (null terminator). The
// payload may contain any data including newlines because only \x00 ends the
// request. Response framing: the server writes a single JSON (or empty
// success) line terminated by `\n` and then closes the connection, so we
// read until EOF and trim one trailing newline.
type Transport struct {
	addr string
	mock func(path string, payload any) (string, error)
	cfg  Config
}

// NewTransport creates a new low-level transport.
func NewTransport(addr string) *Transport { return NewTransportWithConfig(addr, nil) }

// NewTransportWithConfig creates a new low-level transport with optional
// timeouts configuration.
func NewTransportWithConfig(addr string, cfg *Config) *Transport {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	return &Transport{addr: addr, cfg: c}
}

// NewMockTransport creates a transport that returns canned responses without
// real networking. The responder receives the path and payload and returns
// the raw response line.
func NewMockTransport(responder func(path string, payload any) (string, error)) *Transport {
	return &Transport{addr: "mock", mock: responder, cfg: defaultConfig()}
}

// Do sends a request and returns the exact single-line response (without
// trailing newline). Payload handling rules:
//
//	[]byte -> sent as-is
//	string -> UTF-8 bytes
//	struct/other -> JSON marshaled bytes
//	nil -> no payload appended
func (t *Transport) Do(path string, payload any) (string, error) {
	return t.DoCtx(context.Background(), path, payload)
}

// DoCtx is like Do but honors the provided context and configured timeouts.
func (t *Transport) DoCtx(ctx context.Context, path string, payload any) (string, error) {
	if t.mock != nil {
		return t.mock(path, payload)
	}
	var lineBytes []byte
	if pb, ok := toPayloadBytes(payload); ok && len(pb) > 0 {
		lineBytes = append([]byte(path+" "), pb...)
	} else {
		lineBytes = []byte(path)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("dial: %w", err)
	}
	d := &net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return "", fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	if _, err := conn.Write(append(lineBytes, '\x00')); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}

	if t.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	}
	raw, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimSuffix(string(raw), "\n"), nil
}

func toPayloadBytes(payload any) ([]byte, bool) {
	switch p := payload.(type) {
	case nil:
		return nil, false
	case []byte:
		return p, true
	case string:
		return []byte(p), true
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, false
		}
		return b, true
	}
}
