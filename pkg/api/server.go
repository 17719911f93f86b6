// Package api exposes the schema registry, codec, and record store over
// HTTP.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mkarls/wireweave/pkg/query"
	"github.com/mkarls/wireweave/pkg/store"
)

// Server holds the API server state.
type Server struct {
	store   *store.RecordStore
	engine  *query.Engine
	config  ServerConfig
	metrics *Metrics
	log     zerolog.Logger
}

// NewServer creates a new API server. metrics may be nil to disable
// instrumentation.
func NewServer(recordStore *store.RecordStore, config ServerConfig, metrics *Metrics, log zerolog.Logger) *Server {
	return &Server{
		store:   recordStore,
		engine:  query.NewEngine(recordStore),
		config:  config,
		metrics: metrics,
		log:     log,
	}
}

// Router builds the chi router with all routes configured.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus scrape endpoint, unprotected.
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", s.instrument("GET", "/health", s.handleHealth))

	r.Route("/api/v1", func(r chi.Router) {
		if s.config.APIKey != "" {
			r.Use(apiKeyMiddleware(s.config.APIKey, s.metrics))
		}

		r.Post("/schemas", s.instrument("POST", "/api/v1/schemas", s.handleRegisterSchema))
		r.Get("/schemas", s.instrument("GET", "/api/v1/schemas", s.handleListSchemas))
		r.Get("/schemas/{name}", s.instrument("GET", "/api/v1/schemas/{name}", s.handleGetSchema))
		r.Get("/schemas/{name}/length", s.instrument("GET", "/api/v1/schemas/{name}/length", s.handleSchemaLength))

		r.Post("/encode/{schema}", s.instrument("POST", "/api/v1/encode/{schema}", s.handleEncode))
		r.Post("/decode/{schema}", s.instrument("POST", "/api/v1/decode/{schema}", s.handleDecode))

		r.Post("/records/{schema}", s.instrument("POST", "/api/v1/records/{schema}", s.handleCreateRecord))
		r.Get("/records/{schema}", s.instrument("GET", "/api/v1/records/{schema}", s.handleQueryRecords))
		r.Get("/records/{schema}/{id}", s.instrument("GET", "/api/v1/records/{schema}/{id}", s.handleGetRecord))
		r.Delete("/records/{schema}/{id}", s.instrument("DELETE", "/api/v1/records/{schema}/{id}", s.handleDeleteRecord))
	})

	return r
}

func (s *Server) instrument(method, endpoint string, h http.HandlerFunc) http.HandlerFunc {
	if s.metrics == nil {
		return h
	}
	return s.metrics.InstrumentHandler(method, endpoint, h)
}

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	s.log.Info().Str("addr", addr).Msg("starting API server")
	return http.ListenAndServe(addr, s.Router())
}
