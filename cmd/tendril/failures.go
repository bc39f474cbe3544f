package main

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/store"
	"github.com/aretw0/tendril/pkg/todos"
)

// failureRecorder is a middleware remembering the last failure action, so
// commands can turn failures reported through state into exit errors.
type failureRecorder struct {
	mu  sync.Mutex
	err error
}

func (f *failureRecorder) middleware() store.Middleware[tendril.State] {
	return func(api store.API[tendril.State]) func(next store.DispatchFunc) store.DispatchFunc {
		return func(next store.DispatchFunc) store.DispatchFunc {
			return func(ctx context.Context, msg any) (any, error) {
				if a, ok := msg.(domain.Action); ok {
					if m := failureMessage(a); m != "" {
						f.mu.Lock()
						f.err = errors.New(m)
						f.mu.Unlock()
					}
				}
				return next(ctx, msg)
			}
		}
	}
}

// Err returns the last recorded failure.
func (f *failureRecorder) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func failureMessage(a domain.Action) string {
	switch {
	case strings.HasSuffix(a.Type, store.SuffixRejected):
		return a.ErrorMessage()
	case strings.HasSuffix(a.Type, "_FAILURE"):
		switch p := a.Payload.(type) {
		case todos.FetchFailure:
			return p.Message
		case todos.MutationFailure:
			return p.Message
		}
		return domain.DefaultErrorMessage
	}
	return ""
}

// newRemoteApp builds an App bound to the configured API, with failures
// recorded.
func newRemoteApp() (*tendril.App, *failureRecorder) {
	rec := &failureRecorder{}
	app := cli.NewApp(cfg, logger, nil, tendril.WithMiddleware(rec.middleware()))
	return app, rec
}
