// file: internal/dispatch/server.go
package dispatch

import (
	"context"
	"errors"
	"net"

	"github.com/cardrpc/dispatcher/internal/logging"
	"github.com/cardrpc/dispatcher/internal/rpc"
	"github.com/cardrpc/dispatcher/internal/rpcerr"
	"github.com/cardrpc/dispatcher/internal/transport"
)

// Server owns the TCP listener and drives the single-threaded accept loop
// mandated by spec §5: one connection is served to completion before the
// next Accept is attempted. There is no goroutine per connection and no
// request pipelining within a connection.
type Server struct {
	listener   net.Listener
	dispatcher *Dispatcher
	logger     logging.Logger
}

// NewServer binds addr (host:port) and returns a Server ready to Serve.
// A port already in use surfaces as the listen error (EADDRINUSE), per
// spec §6's port-exclusivity requirement.
func NewServer(addr string, dispatcher *Dispatcher, logger logging.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.GetNoopLogger()
	}
	return &Server{listener: ln, dispatcher: dispatcher, logger: logger.WithField("component", "server")}, nil
}

// Addr returns the address the listener is bound to, useful when addr was
// given as "host:0" to pick an ephemeral port.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs the accept loop until ctx is cancelled or the listener is
// closed. Each accepted connection is served synchronously to completion on
// this goroutine before the next Accept call, per spec §5.
func (s *Server) Serve(ctx context.Context) error {
	defer s.listener.Close()

	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && !netErr.Temporary() {
				return err
			}
			s.logger.Warn("accept error", "error", err)
			continue
		}

		s.serveConn(ctx, conn)
	}
}

// Close closes the listener, causing a blocked Accept to return.
func (s *Server) Close() error {
	return s.listener.Close()
}

// serveConn reads and answers frames on conn until the peer closes the
// connection or an unrecoverable I/O error occurs, then returns control to
// the accept loop. Exactly one response is written per accepted frame, per
// spec §3 invariant 4; a peer disconnect mid-frame yields no response, per
// invariant 3.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reader := transport.NewFrameReader(conn)
	for {
		frame, err := reader.ReadFrame()
		if err != nil {
			if err == transport.ErrConnectionClosed {
				return
			}
			var oversize *transport.OversizeFrameError
			if errors.As(err, &oversize) {
				// Per spec §3 invariant 7, an oversize frame is BAD_REQUEST
				// with a message containing "too large"; the connection stays
				// open for the next frame.
				protoErr := rpcerr.NewProtocolError(
					"frame too large: maximum size is 256 bytes including terminator",
					map[string]interface{}{"discarded_bytes": oversize.Discarded},
				)
				env := s.dispatcher.errorEnvelope(rpc.NullID, protoErr)
				if !s.writeEnvelope(conn, env) {
					return
				}
				continue
			}
			s.logger.Warn("frame read error", "error", err)
			return
		}

		env := s.dispatcher.HandleFrame(ctx, frame)
		if !s.writeEnvelope(conn, env) {
			return
		}
	}
}

func (s *Server) writeEnvelope(conn net.Conn, env rpc.Envelope) bool {
	data, err := env.Encode()
	if err != nil {
		s.logger.Error("failed to encode response envelope", "error", err)
		return false
	}
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("failed to write response", "error", err)
		return false
	}
	return true
}
