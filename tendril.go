package tendril

import (
	"context"
	"log/slog"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/codec"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/posts"
	"github.com/aretw0/tendril/pkg/store"
	"github.com/aretw0/tendril/pkg/todos"
	"github.com/aretw0/tendril/pkg/users"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is the release of the library and CLI.
const Version = "0.4.0"

// App is the high-level entry point: a store over the root State wired to a
// REST client.
type App struct {
	store    *store.Store[State]
	client   ports.Client
	registry *codec.Registry
	metrics  *store.Metrics

	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	registerer  prometheus.Registerer
	middlewares []store.Middleware[State]
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLogger sets the structured logger used by the logging middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithRegisterer enables dispatch metrics, registered with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(a *App) {
		a.registerer = reg
	}
}

// WithMiddleware appends middlewares after the built-in ones.
func WithMiddleware(mw ...store.Middleware[State]) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// New creates an App. client may be nil when no thunk will be dispatched.
func New(client ports.Client, opts ...Option) *App {
	a := &App{client: client}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}

	chain := []store.Middleware[State]{
		store.ThunkMiddleware[State](),
		store.LoggerMiddleware[State](a.logger),
	}
	if a.registerer != nil {
		a.metrics = store.NewMetrics(a.registerer)
		chain = append(chain, store.MetricsMiddleware[State](a.metrics))
	}
	chain = append(chain, a.middlewares...)

	a.store = store.New(Reduce,
		store.WithMiddleware(chain...),
		store.WithLogger[State](a.logger),
		store.WithLifecycleHooks[State](a.hooks),
	)
	a.registry = codec.NewRegistry(Payloads()...)

	return a
}

// GetState returns the current state snapshot.
func (a *App) GetState() State {
	return a.store.GetState()
}

// Dispatch sends an action or a thunk through the store.
func (a *App) Dispatch(ctx context.Context, msg any) (any, error) {
	return a.store.Dispatch(ctx, msg)
}

// Subscribe registers a listener called after every transition.
func (a *App) Subscribe(fn func()) func() {
	return a.store.Subscribe(fn)
}

// Close detaches all listeners. Later dispatches fail with domain.ErrStoreClosed.
func (a *App) Close() {
	a.store.Close()
}

// Registry returns the codec registry that knows every action of the App.
func (a *App) Registry() *codec.Registry {
	return a.registry
}

// Metrics returns the dispatch collectors, or nil without WithRegisterer.
func (a *App) Metrics() *store.Metrics {
	return a.metrics
}

// FetchTodos returns a thunk loading the todos of a filter.
func (a *App) FetchTodos(f domain.Filter) store.Thunk[State] {
	return todos.FetchTodos(a.client, f, selectTodos)
}

// AddTodo returns a thunk creating a todo.
func (a *App) AddTodo(text string) store.Thunk[State] {
	return todos.AddTodo[State](a.client, text)
}

// ToggleTodo returns a thunk flipping a todo.
func (a *App) ToggleTodo(id string) store.Thunk[State] {
	return todos.ToggleTodo[State](a.client, id)
}

// FetchPosts returns a thunk loading every post.
func (a *App) FetchPosts() store.Thunk[State] {
	return posts.FetchPosts[State](a.client)
}

// AddNewPost returns a thunk saving a post on the server.
func (a *App) AddNewPost(p posts.NewPost) store.Thunk[State] {
	return posts.AddNewPost[State](a.client, p)
}

// FetchUsers returns a thunk loading the users.
func (a *App) FetchUsers() store.Thunk[State] {
	return users.FetchUsers[State](a.client)
}
