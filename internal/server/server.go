// Package server provides the HTTP API for Ofertero.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ofertero/ofertero/internal/catalog"
	"github.com/ofertero/ofertero/internal/config"
	"github.com/ofertero/ofertero/internal/indexer"
	"github.com/ofertero/ofertero/internal/query"
	"github.com/ofertero/ofertero/internal/search"
)

// Server is the HTTP server for the Ofertero API.
type Server struct {
	engine    *search.Engine
	builder   *indexer.Builder
	store     catalog.Store
	processor *query.Processor
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
	building  atomic.Bool
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	builder *indexer.Builder,
	store catalog.Store,
	processor *query.Processor,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:    engine,
		builder:   builder,
		store:     store,
		processor: processor,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/search/filters", s.handleSearchFilters)
	r.Get("/api/v1/stats", s.handleStats)
	r.Post("/api/v1/index/build", s.handleIndexBuild)
	r.Get("/api/v1/products", s.handleListProducts)
	r.Post("/api/v1/products", s.handleUpsertProducts)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
