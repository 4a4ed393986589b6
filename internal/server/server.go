package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/askbq/askbq/internal/auth"
	"github.com/askbq/askbq/internal/config"
	"github.com/askbq/askbq/internal/settings"
	"github.com/rs/zerolog/log"
)

type Server struct {
	cfg      *config.Config
	http     *http.Server
	store    *settings.Store // held for graceful close
	resolver *auth.Resolver  // held so a live warehouse client is closed on shutdown
}

func New(cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg}

	router, err := s.setupRoutes()
	if err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Str("addr", s.http.Addr).Msg("server listening")

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.http.Shutdown(shutdownCtx)

		s.resolver.Invalidate()
		if closeErr := s.store.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing settings store")
		}

		return err
	case err := <-errCh:
		return err
	}
}
