package server

import (
	"net/http"

	"github.com/askbq/askbq/internal/agent"
	"github.com/askbq/askbq/internal/auth"
	"github.com/askbq/askbq/internal/browse"
	"github.com/askbq/askbq/internal/handler"
	"github.com/askbq/askbq/internal/middleware"
	"github.com/askbq/askbq/internal/schema"
	"github.com/askbq/askbq/internal/settings"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) setupRoutes() (http.Handler, error) {
	cfg := s.cfg

	// ─── Core state ──────────────────────────────────────────────────────────────
	store, err := settings.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	s.store = store

	resolver := auth.NewResolver(store)
	s.resolver = resolver

	ag := agent.New(store, resolver, schema.NewCache())
	opener := browse.NewOpener()

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("rate_limit_per_minute", cfg.RateLimitPerMinute).
		Strs("cors_origins", cfg.CORSOrigins).
		Msg("service configuration")

	// ─── Handlers ────────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(store)
	configH := handler.NewConfigHandler(store, resolver, ag)
	authH := handler.NewAuthHandler(resolver, opener, ag)
	askH := handler.NewAskHandler(ag)
	linksH := handler.NewLinksHandler(opener)

	// ─── Router ──────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			// Settings
			r.Get("/config", configH.Load)
			r.Post("/config", configH.Save)
			r.Post("/config/service-account", configH.UploadServiceAccount)

			// Browser sign-in
			r.Post("/auth/browser/initiate", authH.Initiate)
			r.Post("/auth/browser/code", authH.SubmitCode)

			// Warehouse
			r.Get("/connection/test", askH.TestConnection)
			r.Post("/ask", askH.Ask)

			// External links
			r.Post("/open", linksH.Open)
		})
	})

	return r, nil
}
