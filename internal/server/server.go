package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/muurk/coachsite/internal/booking"
	"github.com/muurk/coachsite/internal/config"
	"github.com/muurk/coachsite/internal/content"
	"github.com/muurk/coachsite/internal/discovery"
	"github.com/muurk/coachsite/internal/logging"
	"github.com/muurk/coachsite/internal/version"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	minSweepInterval  = time.Second
)

// Option customises a Server.
type Option func(*Server)

// WithClock replaces the real clock driving booking lifecycles and session
// expiry.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithSink replaces the inquiry sink selected by the settings.
func WithSink(sink booking.Sink) Option {
	return func(s *Server) { s.sink = sink }
}

// Server serves the coaching site and its booking sessions.
type Server struct {
	settings  *config.Settings
	site      *content.Site
	clock     clockwork.Clock
	sink      booking.Sink
	sessions  *booking.Registry
	engine    *gin.Engine
	tlsConfig *tls.Config

	httpServer *http.Server
	listener   net.Listener
	announcer  *discovery.Announcer
	stopSweep  context.CancelFunc

	// quit is closed on shutdown so hijacked websocket feeds exit.
	quit     chan struct{}
	quitOnce sync.Once
	feeds    sync.WaitGroup
}

// New creates a Server from settings and site content.
func New(settings *config.Settings, site *content.Site, opts ...Option) (*Server, error) {
	if settings == nil {
		defaults := config.Defaults()
		settings = &defaults
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if site == nil {
		return nil, errors.New("site content is required")
	}

	s := &Server{
		settings: settings,
		site:     site,
		clock:    clockwork.NewRealClock(),
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.sink == nil {
		sink, err := booking.NewSink(settings.InquirySink, settings.InquiryFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create inquiry sink: %w", err)
		}
		s.sink = sink
	}

	rules, err := booking.NewRuleSet(site.ServiceTitles())
	if err != nil {
		return nil, fmt.Errorf("failed to build booking rules: %w", err)
	}
	s.sessions = booking.NewRegistry(booking.RegistryOptions{
		Rules:        rules,
		Sink:         s.sink,
		Clock:        s.clock,
		SubmitDelay:  settings.SubmitDelay,
		SuccessDelay: settings.SuccessDelay,
		TTL:          settings.SessionTTL,
	})

	if settings.TLS() {
		s.tlsConfig, err = NewTLSConfig(settings.CertPath, settings.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	s.engine, err = s.newEngine()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions returns the booking session registry.
func (s *Server) Sessions() *booking.Registry {
	return s.sessions
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	addr := s.settings.Addr()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener

	logging.Info("Starting coachsite server",
		zap.String("addr", listener.Addr().String()),
		zap.String("version", version.Full()),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
		zap.String("inquiry_sink", s.settings.InquirySink),
	)

	s.httpServer = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	s.stopSweep = cancel
	go s.sessions.Run(sweepCtx, s.sweepInterval())

	if s.settings.Announce {
		port := listener.Addr().(*net.TCPAddr).Port
		ann, err := discovery.Announce(s.settings.InstanceName, port, version.Version)
		if err != nil {
			logging.Warn("mDNS announcement failed, continuing without it", zap.Error(err))
		} else {
			s.announcer = ann
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	}
}

func (s *Server) sweepInterval() time.Duration {
	interval := s.settings.SessionTTL / 4
	if interval < minSweepInterval {
		return minSweepInterval
	}
	return interval
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.announcer.Shutdown()
	if s.stopSweep != nil {
		s.stopSweep()
	}

	var shutdownErr error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			logging.Error("Error shutting down HTTP server", zap.Error(err))
			shutdownErr = err
		}
	}

	s.quitOnce.Do(func() { close(s.quit) })

	done := make(chan struct{})
	go func() {
		s.feeds.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All event feeds closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	s.sessions.CloseAll()
	logging.Sync()

	return shutdownErr
}
