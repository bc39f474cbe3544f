package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/posts"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes an App over HTTP and streams its transitions as SSE.
type Server struct {
	App     *tendril.App
	Streams *StreamManager

	logger      *slog.Logger
	gatherer    prometheus.Gatherer
	router      chi.Router
	unsubscribe func()
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer serves the metrics of g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// New creates a Server and subscribes it to the App.
// Call Close to detach it.
func New(app *tendril.App, opts ...Option) *Server {
	s := &Server{
		App:    app,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	s.unsubscribe = app.Subscribe(s.diffBroadcaster(app.GetState()))
	s.router = s.routes()
	return s
}

// NewHandler creates a new HTTP handler for the App.
func NewHandler(app *tendril.App, opts ...Option) http.Handler {
	return New(app, opts...)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	enableCORS(s.router).ServeHTTP(w, r)
}

// Close stops broadcasting transitions.
func (s *Server) Close() {
	s.unsubscribe()
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Post("/dispatch", s.Dispatch)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", s.ListTodos)
		r.Post("/", s.AddTodo)
		r.Post("/fetch", s.FetchTodos)
		r.Post("/{id}/toggle", s.ToggleTodo)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", s.ListPosts)
		r.Post("/", s.AddPost)
		r.Post("/fetch", s.FetchPosts)
		r.Get("/{id}", s.GetPost)
		r.Patch("/{id}", s.UpdatePost)
		r.Delete("/{id}", s.RemovePost)
		r.Post("/{id}/reactions", s.AddReaction)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.ListUsers)
		r.Post("/fetch", s.FetchUsers)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"app":     "tendril-http",
		"version": strings.TrimSpace(tendril.Version),
		"actions": s.App.Registry().Types(),
	})
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.App.GetState())
}

// Dispatch handles the POST /dispatch request: a JSON action envelope.
func (s *Server) Dispatch(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	action, err := s.App.Registry().Decode(raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.App.Dispatch(r.Context(), action); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.App.GetState())
}

// ListTodos handles GET /todos?filter=.
func (s *Server) ListTodos(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todoView(s.App.GetState(), filter))
}

// FetchTodos handles POST /todos/fetch?filter=.
func (s *Server) FetchTodos(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.App.Dispatch(r.Context(), s.App.FetchTodos(filter)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todoView(s.App.GetState(), filter))
}

// AddTodo handles POST /todos.
func (s *Server) AddTodo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if _, err := s.App.Dispatch(r.Context(), s.App.AddTodo(body.Text)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todoView(s.App.GetState(), domain.FilterAll))
}

// ToggleTodo handles POST /todos/{id}/toggle.
func (s *Server) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.App.Dispatch(r.Context(), s.App.ToggleTodo(chi.URLParam(r, "id"))); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todoView(s.App.GetState(), domain.FilterAll))
}

// ListPosts handles GET /posts.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.App.GetState().Posts)
}

// GetPost handles GET /posts/{id}.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := tendril.PostByID(s.App.GetState(), chi.URLParam(r, "id"))
	if !ok {
		s.fail(w, r, domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// FetchPosts handles POST /posts/fetch.
func (s *Server) FetchPosts(w http.ResponseWriter, r *http.Request) {
	if _, err := s.App.Dispatch(r.Context(), s.App.FetchPosts()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.App.GetState().Posts)
}

// AddPost handles POST /posts. With ?remote=true the post is saved through
// the REST API; otherwise it is added locally.
func (s *Server) AddPost(w http.ResponseWriter, r *http.Request) {
	var body posts.NewPost
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Title == "" || body.Content == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	var msg any = posts.PostAdded(body.Title, body.Content, body.User)
	if r.URL.Query().Get("remote") == "true" {
		msg = s.App.AddNewPost(body)
	}
	if _, err := s.App.Dispatch(r.Context(), msg); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.App.GetState().Posts)
}

// UpdatePost handles PATCH /posts/{id}. Omitted fields keep their value;
// fields sent empty are rejected.
func (s *Server) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (body.Title != nil && *body.Title == "") || (body.Content != nil && *body.Content == "") {
		writeError(w, http.StatusBadRequest, "title and content must not be empty")
		return
	}
	current, ok := tendril.PostByID(s.App.GetState(), id)
	if !ok {
		s.fail(w, r, domain.ErrNotFound)
		return
	}
	title, content := current.Title, current.Content
	if body.Title != nil {
		title = *body.Title
	}
	if body.Content != nil {
		content = *body.Content
	}
	if _, err := s.App.Dispatch(r.Context(), posts.PostUpdated(id, title, content)); err != nil {
		s.fail(w, r, err)
		return
	}
	post, _ := tendril.PostByID(s.App.GetState(), id)
	writeJSON(w, http.StatusOK, post)
}

// RemovePost handles DELETE /posts/{id}. Removing an absent post succeeds.
func (s *Server) RemovePost(w http.ResponseWriter, r *http.Request) {
	if _, err := s.App.Dispatch(r.Context(), posts.PostRemoved(chi.URLParam(r, "id"))); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddReaction handles POST /posts/{id}/reactions.
func (s *Server) AddReaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Reaction string `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Reaction == "" {
		writeError(w, http.StatusBadRequest, "reaction is required")
		return
	}
	if _, ok := tendril.PostByID(s.App.GetState(), id); !ok {
		s.fail(w, r, domain.ErrNotFound)
		return
	}
	if _, err := s.App.Dispatch(r.Context(), posts.ReactionAdded(id, body.Reaction)); err != nil {
		s.fail(w, r, err)
		return
	}
	post, _ := tendril.PostByID(s.App.GetState(), id)
	writeJSON(w, http.StatusOK, post)
}

// ListUsers handles GET /users.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tendril.AllUsers(s.App.GetState()))
}

// FetchUsers handles POST /users/fetch.
func (s *Server) FetchUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := s.App.Dispatch(r.Context(), s.App.FetchUsers()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tendril.AllUsers(s.App.GetState()))
}

// fail maps domain errors to statuses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrMalformedAction), errors.Is(err, domain.ErrUnknownFilter):
		s.logger.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStoreClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("internal error: %v", err))
	}
}

type todoList struct {
	Filter       domain.Filter `json:"filter"`
	Todos        []domain.Todo `json:"todos"`
	IsFetching   bool          `json:"isFetching"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
}

func todoView(st tendril.State, f domain.Filter) todoList {
	return todoList{
		Filter:       f,
		Todos:        tendril.VisibleTodos(st, f),
		IsFetching:   tendril.IsFetching(st, f),
		ErrorMessage: tendril.ErrorMessage(st, f),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
