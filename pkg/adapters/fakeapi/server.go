// Package fakeapi serves the REST API that the thunks talk to, on top of a
// ports.Backend. It stands in for a real server in demos and tests.
package fakeapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server handles the fake REST endpoints.
type Server struct {
	Backend ports.Backend

	delay  time.Duration
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithDelay holds every response for d, to make loading states visible.
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		s.delay = d
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler of the fake API.
func NewHandler(backend ports.Backend, opts ...Option) http.Handler {
	s := &Server{
		Backend: backend,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.delay > 0 {
		r.Use(s.withDelay)
	}

	r.Get("/health", s.GetHealth)

	r.Get("/todos", s.ListTodos)
	r.Post("/todos", s.AddTodo)
	r.Patch("/todos/{id}/toggle", s.ToggleTodo)

	r.Route("/fakeApi", func(r chi.Router) {
		r.Get("/posts", s.ListPosts)
		r.Post("/posts", s.AddPost)
		r.Get("/users", s.ListUsers)
	})

	return r
}

func (s *Server) withDelay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			select {
			case <-time.After(s.delay):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTodos handles GET /todos?filter=.
func (s *Server) ListTodos(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := s.Backend.ListTodos(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// AddTodo handles POST /todos.
func (s *Server) AddTodo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	todo, err := s.Backend.AddTodo(r.Context(), text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// ToggleTodo handles PATCH /todos/{id}/toggle.
func (s *Server) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := s.Backend.ToggleTodo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// ListPosts handles GET /fakeApi/posts.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.Backend.ListPosts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// AddPost handles POST /fakeApi/posts.
func (s *Server) AddPost(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		User    string `json:"user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Title == "" || body.Content == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}
	post, err := s.Backend.AddPost(r.Context(), domain.Post{
		Title:   body.Title,
		Content: body.Content,
		User:    body.User,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"post": post})
}

// ListUsers handles GET /fakeApi/users.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Backend.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.ErrorContext(r.Context(), "backend failed", "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
