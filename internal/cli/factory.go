// Package cli holds the wiring shared by the tendril commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/config"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/adapters/fakeapi"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/adapters/redis"
	"github.com/aretw0/tendril/pkg/adapters/restclient"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// NewLogger builds the stderr logger for a level name.
func NewLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// NewApp wires an App to the REST API of cfg. reg may be nil.
// extra options apply after the defaults.
func NewApp(cfg config.Config, logger *slog.Logger, reg prometheus.Registerer, extra ...tendril.Option) *tendril.App {
	client := restclient.New(cfg.API.BaseURL,
		restclient.WithTimeout(time.Duration(cfg.API.Timeout)),
		restclient.WithLogger(logger),
	)

	opts := []tendril.Option{
		tendril.WithLogger(logger),
		tendril.WithLifecycleHooks(DebugHooks(logger)),
	}
	if reg != nil {
		opts = append(opts, tendril.WithRegisterer(reg))
	}
	return tendril.New(client, append(opts, extra...)...)
}

// DebugHooks logs every transition and thunk result at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			logger.Debug("Dispatched", "action", e.ActionType, "changed", e.Changed)
		},
		OnThunkReturn: func(ctx context.Context, e *domain.ThunkEvent) {
			if e.IsError {
				logger.Debug("Thunk Return (Error)", "err", e.Err)
			} else {
				logger.Debug("Thunk Return (Success)")
			}
		},
	}
}

// OpenBackend returns the backend for the fake API: Redis when an address
// is configured, memory otherwise. Fixtures are seeded when cfg.Seed is set.
// The returned closer is never nil.
func OpenBackend(ctx context.Context, cfg config.FakeAPIConfig, logger *slog.Logger) (ports.Backend, io.Closer, error) {
	var (
		backend ports.Backend
		closer  io.Closer = nopCloser{}
	)

	if cfg.Redis.Addr != "" {
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		rb := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := rb.Ping(ctx); err != nil {
			_ = rb.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("Using redis backend", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
		backend, closer = rb, rb
	} else {
		logger.Info("Using memory backend")
		backend = memory.NewBackend()
	}

	if cfg.Seed {
		seeder, ok := backend.(ports.Seeder)
		if !ok {
			return nil, nil, errors.Join(errors.New("backend cannot be seeded"), closer.Close())
		}
		if err := seeder.Seed(ctx, fakeapi.DefaultFixtures()); err != nil {
			return nil, nil, errors.Join(fmt.Errorf("seed: %w", err), closer.Close())
		}
	}
	return backend, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// IsInterrupted reports whether err only means the user stopped the command.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// HandleExecutionError turns interruptions into a clean exit.
func HandleExecutionError(err error) error {
	if err == nil || IsInterrupted(err) {
		return nil
	}
	return err
}
