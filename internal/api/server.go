package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/blogd/internal/config"
	"github.com/dgallion1/blogd/internal/metrics"
	"github.com/dgallion1/blogd/internal/posts"
	"github.com/dgallion1/blogd/internal/render"
	"github.com/dgallion1/blogd/internal/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the server needs.
type Deps struct {
	Store    posts.Store
	Renderer *render.Renderer
	Pages    *view.Pages
	Recorder metrics.Recorder
	Metrics  http.Handler // Served on /metrics when non-nil
	Log      *slog.Logger
}

// Server is the HTTP server for blogd.
type Server struct {
	router   chi.Router
	store    posts.Store
	renderer *render.Renderer
	pages    *view.Pages
	recorder metrics.Recorder
	metrics  http.Handler
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, cfg config.Config) *Server {
	s := &Server{
		store:    deps.Store,
		renderer: deps.Renderer,
		pages:    deps.Pages,
		recorder: deps.Recorder,
		metrics:  deps.Metrics,
		log:      deps.Log,
		cfg:      cfg,
	}
	if s.recorder == nil {
		s.recorder = metrics.NoopRecorder{}
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(RequestMetrics(s.recorder))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/", s.handleIndex)
	r.Get("/posts/{postID}", s.handlePostPage)

	r.Get("/api/posts", s.handleLatestPosts)
	r.Get("/api/posts/{postID}", s.handleGetPost)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/posts", s.handleCreatePost)
		r.Post("/api/render", s.handleRender)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
