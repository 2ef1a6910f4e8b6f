// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/okian/takathon/pkg/logger"
)

// Route paths.
const (
	PathRoot      = "/"
	PathHealth    = "/api/v1/health"
	PathRecommend = "/api/v1/matching/recommend"
	PathStats     = "/stats"
	PathMetrics   = "/metrics"
)

// defaultMaxBodyBytes bounds recommendation request bodies.
const defaultMaxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Recommender
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler      *RootHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler

	allowedOrigins []string
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins allowed to call the API.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = append([]string(nil), origins...)
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes bounds the size of recommendation request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.recommendHandler.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		rootHandler:      NewRootHandler(),
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		recommendHandler: NewRecommendHandler(deps),
		allowedOrigins:   []string{"http://localhost:3000"},
		logger:           logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.HandleFunc(PathRoot, MetricsMiddleware(s.rootHandler.HandleRoot, "root")).Methods(http.MethodGet)
	r.HandleFunc(PathHealth, MetricsMiddleware(s.healthHandler.HandleHealth, "health")).Methods(http.MethodGet)
	r.HandleFunc(PathStats, MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.HandleFunc(PathMetrics, s.healthHandler.HandleMetrics).Methods(http.MethodGet)
	r.HandleFunc(PathRecommend, MetricsMiddleware(s.recommendHandler.HandleRecommend, "recommend")).Methods(http.MethodPost)
}

// Handler wraps r with request IDs, access logging, and CORS.
func (s *Server) Handler(r *mux.Router) http.Handler {
	r.Use(RequestIDMiddleware, AccessLogMiddleware(s.logger))
	return cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{HeaderRequestID},
		AllowCredentials: true,
	}).Handler(r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
