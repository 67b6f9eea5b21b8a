// Package api provides the loopblock HTTP server.
package api

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/loopblock/loopblock/internal/busywork"
	"github.com/loopblock/loopblock/internal/config"
	"github.com/loopblock/loopblock/internal/eventloop"
	"github.com/loopblock/loopblock/internal/logging"
	"github.com/pkg/errors"
)

// State is a Server lifecycle state.
type State int

// Lifecycle states. A Server moves Stopped -> Listening -> Stopping -> Stopped
// exactly once.
const (
	Stopped State = iota
	Listening
	Stopping
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Listening:
		return "listening"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Server represents the HTTP server.
type Server struct {
	cfg        *config.Config
	log        *logging.Logger
	loop       *eventloop.Loop
	dispatcher *Dispatcher
	httpServer *http.Server

	mu       sync.Mutex
	state    State
	listener net.Listener
	started  bool
}

// New creates a new server. It does not bind until Listen is called.
func New(cfg *config.Config, logger *logging.Logger) *Server {
	loop := eventloop.New()
	sim := busywork.New(cfg.Slow.Duration, logger)

	s := &Server{
		cfg:        cfg,
		log:        logger,
		loop:       loop,
		dispatcher: NewDispatcher(loop, sim, logger),
	}

	s.httpServer = &http.Server{
		Addr:        cfg.Addr(),
		Handler:     s.dispatcher,
		ReadTimeout: 30 * time.Second,
		ErrorLog:    log.New(logger.ErrorWriter(), "", 0),
	}

	return s
}

// Listen binds the listening socket and starts the event loop.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("server cannot be started twice")
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.httpServer.Addr)
	}

	s.started = true
	s.listener = ln
	s.loop.Start()
	s.state = Listening
	return nil
}

// Serve accepts connections until Shutdown is called. It returns nil after a
// graceful shutdown.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		return errors.New("server is not listening")
	}

	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	s.mu.Lock()
	s.state = Stopped
	s.mu.Unlock()
	s.loop.Stop()
	return errors.Wrap(err, "server error")
}

// Shutdown gracefully shuts down the server: new connections are refused
// and requests already accepted run to completion. Only ctx bounds the wait.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Listening {
		state := s.state
		s.mu.Unlock()
		return errors.Errorf("cannot shut down a server that is %s", state)
	}
	s.state = Stopping
	ln := s.listener
	s.mu.Unlock()

	err := s.httpServer.Shutdown(ctx)
	// Serve may never have run, in which case the listener is still open.
	ln.Close()

	s.loop.Stop()
	<-s.loop.Done()

	s.mu.Lock()
	s.state = Stopped
	s.mu.Unlock()

	return err
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
