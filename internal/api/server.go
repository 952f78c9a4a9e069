package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seedslab/seeds-analytics/internal/auth"
	"github.com/seedslab/seeds-analytics/internal/source"
	"github.com/seedslab/seeds-analytics/internal/storage"
	"github.com/seedslab/seeds-analytics/internal/topicmap"
)

// ServerConfig wires the server's collaborators.
type ServerConfig struct {
	Store       *source.Store
	TopicMap    *topicmap.Service
	AuthService auth.Service
	// Layouts is nil when no database is configured; snapshot routes then
	// answer 503.
	Layouts storage.LayoutRepository
}

type Server struct {
	router   *chi.Mux
	store    *source.Store
	topicMap *topicmap.Service
	auth     auth.Service
	layouts  storage.LayoutRepository
}

func NewServer(cfg ServerConfig) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:   r,
		store:    cfg.Store,
		topicMap: cfg.TopicMap,
		auth:     cfg.AuthService,
		layouts:  cfg.Layouts,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth (public)
		r.Post("/auth/login", s.handleLogin)

		// Read surface (public)
		r.Get("/topicmap", s.handleTopicMap)
		r.Route("/topics", func(r chi.Router) {
			r.Get("/labels", s.handleLabels)
			r.Get("/years", s.handleYears)
			r.Get("/keywords", s.handleTopKeywords)
			r.Get("/authors", s.handleAuthors)
			r.Get("/growth", s.handleGrowth)
			r.Get("/recommendations", s.handleRecommendations)
			r.Get("/wordcloud", s.handleWordCloud)
		})

		// Snapshot management (admin)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.auth))
			r.Route("/snapshots", func(r chi.Router) {
				r.Post("/", s.handleCreateSnapshot)
				r.Get("/latest", s.handleLatestSnapshot)
				r.Delete("/{snapshotID}", s.handleDeleteSnapshot)
			})
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
