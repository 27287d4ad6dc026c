// SPDX-License-Identifier: MPL-2.0

// Package remote serves composed environments over SSH using the Wish
// library. Team members connect with a plain ssh client: sessions with a
// terminal get a live materialized shell, plain sessions get the canonical
// descriptor for scripting.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"github.com/denvtool/denv/internal/compose"
	"github.com/denvtool/denv/pkg/platform"
)

const (
	stateCreated int32 = iota
	stateRunning
	stateStopped
)

type (
	// DescriptorProvider composes the named output for the given platform.
	// The server calls it once per session; implementations are expected to
	// be safe for concurrent use.
	DescriptorProvider func(ctx context.Context, output string, p platform.Platform) (*compose.Descriptor, error)

	// Config holds the server's immutable configuration.
	Config struct {
		// Address is the listen address in host:port form. Port 0
		// auto-selects.
		Address string
		// HostKeyPath is where the SSH host key lives; Wish generates one
		// when the file does not exist.
		HostKeyPath string
		// DefaultOutput is composed when the client names no output.
		DefaultOutput string
		// ShutdownTimeout bounds graceful shutdown. Zero means 10s.
		ShutdownTimeout time.Duration
	}

	// Server is a single-use SSH server: once stopped, create a new one.
	Server struct {
		cfg      Config
		provider DescriptorProvider
		logger   *log.Logger

		state atomic.Int32

		mu       sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string
	}
)

// NewServer creates a server that composes sessions' environments through
// provider.
func NewServer(cfg Config, provider DescriptorProvider, logger *log.Logger) (*Server, error) {
	if provider == nil {
		return nil, errors.New("remote: nil descriptor provider")
	}
	if cfg.Address == "" {
		cfg.Address = "localhost:2222"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, provider: provider, logger: logger}, nil
}

// Addr returns the bound listen address. Empty until Start succeeds.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start binds the listener and begins serving. It returns once the server
// is accepting connections; runtime errors are logged.
func (s *Server) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(stateCreated, stateRunning) {
		return errors.New("remote: server already started")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.cfg.Address)
	if err != nil {
		s.state.Store(stateStopped)
		return fmt.Errorf("remote: listen on %s: %w", s.cfg.Address, err)
	}

	opts := []ssh.Option{
		wish.WithAddress(s.cfg.Address),
		wish.WithMiddleware(s.sessionMiddleware()),
	}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(s.cfg.HostKeyPath))
	}
	srv, err := wish.NewServer(opts...)
	if err != nil {
		_ = listener.Close()
		s.state.Store(stateStopped)
		return fmt.Errorf("remote: create server: %w", err)
	}

	s.mu.Lock()
	s.srv = srv
	s.listener = listener
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("serve error", "error", err)
		}
	}()

	s.logger.Info("serving environments over ssh", "address", s.addr)
	return nil
}

// Stop gracefully shuts the server down. Safe to call more than once.
func (s *Server) Stop() error {
	if !s.state.CompareAndSwap(stateRunning, stateStopped) {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv, listener := s.srv, s.listener
	s.mu.Unlock()

	var err error
	if srv != nil {
		if err = srv.Shutdown(shutdownCtx); errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
	}
	if listener != nil {
		_ = listener.Close()
	}
	s.logger.Info("ssh server stopped")
	return err
}
