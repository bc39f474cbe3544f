package store

import (
	"log/slog"

	"github.com/aretw0/tendril/pkg/domain"
)

// Option configures a Store.
type Option[S any] func(*Store[S])

// WithMiddleware appends middlewares to the dispatch chain.
// The first middleware given is the outermost.
func WithMiddleware[S any](middlewares ...Middleware[S]) Option[S] {
	return func(s *Store[S]) {
		s.middlewares = append(s.middlewares, middlewares...)
	}
}

// WithLogger configures the logger for internal events (like failed thunks).
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(s *Store[S]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks[S any](hooks domain.LifecycleHooks) Option[S] {
	return func(s *Store[S]) {
		s.hooks = hooks
	}
}
