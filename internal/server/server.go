// Package server runs the TCP front of the booking service: an accept
// loop that hands every connection to its own worker goroutine. Workers
// are fully isolated; a protocol error, store failure, or panic on one
// connection never disturbs the others or the accept loop.
package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net"

	"github.com/iliyamo/concert-ticket-booking/internal/protocol"
	"github.com/iliyamo/concert-ticket-booking/internal/router"
	"github.com/iliyamo/concert-ticket-booking/internal/session"
)

// Server accepts client connections and runs one worker per connection.
type Server struct {
	router *router.Router

	// Allow, when set, gates new connections by peer IP. A denied
	// connection gets one error line and is closed. Nil means no limit.
	Allow func(ctx context.Context, ip string) bool
}

func New(r *router.Router) *Server {
	if r == nil {
		panic("nil router passed to server.New")
	}
	return &Server{router: r}
}

// ListenAndServe listens on addr and serves until the context is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln indefinitely. It returns nil once the
// context is cancelled and the listener closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// Accept failures on a live listener are transient
			// (per-connection resets, fd pressure); keep accepting.
			log.Printf("accept: %v", err)
			continue
		}
		if s.Allow != nil && !s.Allow(ctx, remoteIP(conn)) {
			refuse(conn)
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

// handleConn is the per-connection worker: a fresh session, then a strict
// one-request-one-response loop until the peer goes away.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	defer func() {
		if p := recover(); p != nil {
			log.Printf("conn %s: panic recovered: %v", remote, p)
		}
		_ = conn.Close()
		log.Printf("conn %s: closed", remote)
	}()
	log.Printf("conn %s: connected", remote)

	sess := session.New(remote)
	framer := protocol.NewFramer(conn)
	for {
		req, err := framer.ReadRequest()
		if err != nil {
			if errors.Is(err, protocol.ErrMalformed) {
				// Bad payload in a good frame: answer and keep going.
				if werr := framer.WriteResponse(protocol.Error("Malformed request")); werr != nil {
					log.Printf("conn %s: write: %v", remote, werr)
					return
				}
				continue
			}
			if !errors.Is(err, io.EOF) {
				log.Printf("conn %s: read: %v", remote, err)
			}
			return
		}
		resp := s.router.Dispatch(ctx, sess, req)
		if err := framer.WriteResponse(resp); err != nil {
			log.Printf("conn %s: write: %v", remote, err)
			return
		}
	}
}

// refuse notifies a rate-limited peer and closes the connection.
// Best-effort: the peer may already be gone.
func refuse(conn net.Conn) {
	framer := protocol.NewFramer(conn)
	_ = framer.WriteResponse(protocol.Error("Too many connections, try again later"))
	_ = conn.Close()
}

func remoteIP(conn net.Conn) string {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String()
	}
	return host
}
