// Package tui provides terminal UI components including SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/canvas-arcade/internal/core"
	"github.com/vovakirdan/canvas-arcade/internal/storage"
)

const shutdownGrace = 10 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Address     string // host:port, e.g. ":23234"
	HostKeyPath string // empty generates ~/.arcade/host_key
	DBPath      string
	IdleTimeout time.Duration

	// MaxSessions caps concurrent players. Zero means no cap.
	MaxSessions int

	// Runtime is the template for every session's runtime config.
	// Screen size and seed are taken from the connection.
	Runtime core.RuntimeConfig

	// Logger is used for server and session events. Nil creates one.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.arcade/scores.db",
		IdleTimeout: 30 * time.Minute,
		Runtime:     core.DefaultConfig(),
	}
}

// SSHServer serves one menu session per SSH connection. All sessions
// share the scores database.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int32
}

// NewSSHServer creates a new SSH server with the given configuration.
// A database that cannot be opened is logged and the server runs without
// scores.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade-ssh",
		})
	}

	hostKey, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "err", err)
		store = nil
	}

	s := &SSHServer{config: cfg, store: store, logger: logger}

	// Middleware runs last to first: gate admits, then the program starts.
	s.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKey),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.program),
			s.gate,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}
	return s, nil
}

// hostKeyPath resolves the host key location and makes sure its
// directory exists. Wish generates the key on first start.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".arcade", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("cannot create host key directory: %w", err)
	}
	return path, nil
}

// admit reserves a session slot.
func (s *SSHServer) admit() bool {
	n := s.active.Add(1)
	if limit := s.config.MaxSessions; limit > 0 && int(n) > limit {
		s.active.Add(-1)
		return false
	}
	return true
}

func (s *SSHServer) release() {
	s.active.Add(-1)
}

// Sessions returns the number of connected players.
func (s *SSHServer) Sessions() int {
	return int(s.active.Load())
}

// gate turns away connections without a terminal or over the session cap,
// and logs the lifetime of the rest.
func (s *SSHServer) gate(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())

		if _, _, ok := sess.Pty(); !ok {
			logger.Warn("rejected session without a terminal")
			wish.Fatalln(sess, "The arcade needs a terminal. Connect with: ssh -t")
			return
		}
		if !s.admit() {
			logger.Warn("rejected session, server full", "max", s.config.MaxSessions)
			wish.Fatalln(sess, "The arcade is full, try again later.")
			return
		}
		defer s.release()

		start := time.Now()
		logger.Info("session started", "active", s.Sessions())
		next(sess)
		logger.Info("session ended", "duration", time.Since(start).Round(time.Second))
	}
}

// program builds the menu session for one connection.
func (s *SSHServer) program(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()

	cfg := s.config.Runtime
	cfg.ScreenW = pty.Window.Width
	cfg.ScreenH = pty.Window.Height
	cfg.CellAspect = core.TerminalCellAspect
	cfg.Seed = 0 // fresh per game

	model := NewSessionModel(cfg, Options{
		Store:    s.store,
		Logger:   s.logger.With("user", sess.User()),
		Renderer: bubbletea.MakeRenderer(sess),
		Player:   sess.User(),
	})
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// ListenAndServe serves until ctx is done or the listener fails, then
// shuts down, giving open sessions a grace period.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.closeStore()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "active", s.Sessions())
	return s.Shutdown()
}

// Shutdown stops accepting connections and waits for open sessions.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	if errors.Is(err, context.DeadlineExceeded) {
		return s.server.Close()
	}
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
