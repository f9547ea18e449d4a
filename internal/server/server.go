package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/bootstrap"
	"github.com/edubridge/platform/internal/config"
	"github.com/edubridge/platform/internal/db"
)

// Server holds the state for the HTTP server.
type Server struct {
	config *config.Config
	router *gin.Engine
	db     *db.PostgresDB
	infra  *bootstrap.Infrastructure
	cancel context.CancelFunc
	logger zerolog.Logger
	http   *http.Server
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	// lives until shutdown; event subscribers stop with it
	ctx, cancel := context.WithCancel(context.Background())

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	infra, err := bootstrap.SetupInfrastructure(ctx, cfg, database, lgr)
	if err != nil {
		cancel()
		database.Close()
		return nil, fmt.Errorf("failed to setup infrastructure: %w", err)
	}

	s := &Server{
		config: cfg,
		db:     database,
		infra:  infra,
		cancel: cancel,
		logger: lgr,
	}

	deps, err := bootstrap.BuildDependencies(cfg, infra, lgr)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to setup dependencies: %w", err), s.release())
	}
	s.router = bootstrap.SetupRouter(cfg, deps, lgr)

	return s, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			s.release()
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var shutdownErr error
	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownErr = errors.Join(shutdownErr, err)
		}
	}

	shutdownErr = errors.Join(shutdownErr, s.release())

	s.logger.Info().Msg("Server shutdown process complete.")
	return shutdownErr
}

// release closes the collaborators in reverse order of creation
func (s *Server) release() error {
	var err error
	if s.cancel != nil {
		s.cancel()
	}
	if s.infra != nil {
		if e := s.infra.Close(); e != nil {
			s.logger.Error().Err(e).Msg("Infrastructure close error")
			err = e
		}
	}
	if s.db != nil {
		s.db.Close()
		s.logger.Info().Msg("Database connection pool closed.")
	}
	return err
}
