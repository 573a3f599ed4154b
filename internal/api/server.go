// Package api provides the HTTP API server and handlers for the PromptHub
// server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/prompthubapp/prompthub-server/internal/auth"
	"github.com/prompthubapp/prompthub-server/internal/backup"
	domainerrors "github.com/prompthubapp/prompthub-server/internal/errors"
	"github.com/prompthubapp/prompthub-server/internal/service"
	"github.com/prompthubapp/prompthub-server/internal/store"
)

// Services bundles the service-layer dependencies of the HTTP handlers.
type Services struct {
	Prompts    *service.PromptService
	Categories *service.CategoryService
	Tags       *service.TagService
	Stats      *service.StatsService
	Backup     *backup.Manager
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     store.Store
	services  Services
	router    *chi.Mux
	api       huma.API
	adminHash string
	logger    *slog.Logger
}

// Config controls server construction.
type Config struct {
	Name        string
	Version     string
	CORSOrigins []string
	// AdminHash is the argon2id hash admin requests are verified against.
	AdminHash string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services Services, cfg Config, logger *slog.Logger) *Server {
	s := &Server{
		store:     st,
		services:  services,
		router:    chi.NewRouter(),
		adminHash: cfg.AdminHash,
		logger:    logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Admin-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	RegisterErrorHandler()

	name := cfg.Name
	if name == "" {
		name = "PromptHub API"
	}
	version := cfg.Version
	if version == "" {
		version = "1.0.0"
	}
	s.api = humachi.New(s.router, huma.DefaultConfig(name, version))

	s.registerHealthRoutes()
	s.registerPromptRoutes()
	s.registerVersionRoutes()
	s.registerCategoryRoutes()
	s.registerTagRoutes()
	s.registerSearchRoutes()
	s.registerStatsRoutes()
	s.registerExportRoutes()
	s.registerAdminRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requireAdmin verifies the X-Admin-Key header against the configured hash.
func (s *Server) requireAdmin(key string) error {
	if key == "" || !auth.VerifyPassword(s.adminHash, key) {
		return domainerrors.Unauthorized("invalid admin key")
	}
	return nil
}
