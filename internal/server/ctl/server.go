// Package ctl implements the line-protocol control server through which
// callers query and change the gadget composition.
package ctl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strings"
)

// wsRegex splits a request into path and payload on the first whitespace
// character.
var wsRegex = regexp.MustCompile(`\s`)

// Server implements a small TCP API for driving the gadget lifecycle.
// Request framing: `<path>[ SP <payload>]\x00`; the response is a single
// JSON (or empty success) line followed by connection close.
type Server struct {
	addr   string
	ln     net.Listener
	logger *slog.Logger
	router *Router
	config ServerConfig
}

// New creates a new control server.
func New(addr string, config ServerConfig, logger *slog.Logger) *Server {
	s := &Server{
		addr:   addr,
		logger: logger,
		config: config,
	}
	s.router = NewRouter()
	return s
}

// Router returns the router used by the server so callers can register handlers.
func (s *Server) Router() *Router { return s.router }

// Config returns the server configuration.
func (s *Server) Config() ServerConfig { return s.config }

// Start listens on the configured address and serves incoming commands.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("control server listening", "addr", s.addr)
	go s.serve()
	return nil
}

// Close stops the control server.
func (s *Server) Close() {
	if s.ln != nil {
		_ = s.ln.Close()
	}
}

func (s *Server) serve() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
				s.logger.Info("control server stopped")
				return
			}
			s.logger.Info("control accept error", "error", err)
			return
		}
		go s.handleConn(c)
	}
}

func (s *Server) writeError(w io.Writer, err error) {
	ctlErr := WrapError(err)
	problemJSON, _ := json.Marshal(ctlErr)
	fmt.Fprintf(w, "%s\n", string(problemJSON))
}

func (s *Server) writeOK(w io.Writer, rest string) {
	if rest == "" {
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "%s\n", rest)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connCtx, connCancel := context.WithCancel(context.Background())
	defer connCancel()

	connLogger := s.logger.With("remote", conn.RemoteAddr().String())
	r := bufio.NewReader(conn)
	w := conn

	// Read until null terminator
	reqData, err := r.ReadString('\x00')
	if err != nil {
		if err == io.EOF {
			connLogger.Error("control incomplete request (no null terminator)")
		} else {
			connLogger.Error("read control data", "error", err)
		}
		return
	}
	// Remove null terminator
	reqData = strings.TrimSuffix(reqData, "\x00")

	if reqData == "" {
		connLogger.Error("control empty command")
		s.writeError(w, ErrBadRequest("empty request"))
		return
	}

	loc := wsRegex.FindStringIndex(reqData)

	var path, payload string
	if loc != nil {
		path = reqData[:loc[0]]
		payload = reqData[loc[1]:]
	} else {
		path = reqData
		payload = ""
	}

	if path == "" {
		connLogger.Error("control empty path")
		s.writeError(w, ErrBadRequest("empty path"))
		return
	}

	path = strings.ToLower(path)
	connLogger.Info("control cmd", "path", path)

	h, params := s.router.Match(path)
	if h == nil {
		s.writeError(w, ErrNotFound(fmt.Sprintf("no handler for path: %s", path)))
		return
	}

	req := &Request{Ctx: connCtx, Params: params, Payload: payload}
	res := &Response{}
	if err := h(req, res, connLogger); err != nil {
		connLogger.Error("control handler error", "path", path, "error", err)
		s.writeError(w, err)
		return
	}
	connLogger.Debug("control handler success", "path", path)
	s.writeOK(w, res.JSON)
}
