package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// API is the view of the store handed to middlewares.
// Dispatch re-enters the full middleware chain.
type API[S any] struct {
	GetState func() S
	Dispatch DispatchFunc

	owner *Store[S]
}

// Middleware intercepts dispatches. It can inspect or transform the message,
// short-circuit, perform I/O, or forward to next.
type Middleware[S any] func(api API[S]) func(next DispatchFunc) DispatchFunc

// Chain composes middlewares. The first one is the outermost.
func Chain[S any](middlewares ...Middleware[S]) Middleware[S] {
	return func(api API[S]) func(next DispatchFunc) DispatchFunc {
		return func(next DispatchFunc) DispatchFunc {
			for i := len(middlewares) - 1; i >= 0; i-- {
				next = middlewares[i](api)(next)
			}
			return next
		}
	}
}

// ThunkMiddleware runs thunks instead of forwarding them to the reducer.
// Both Thunk[S] values and plain func literals of the same signature are
// accepted. The thunk receives the full dispatch chain and GetState; its
// error is returned as the dispatch error.
func ThunkMiddleware[S any]() Middleware[S] {
	return func(api API[S]) func(next DispatchFunc) DispatchFunc {
		return func(next DispatchFunc) DispatchFunc {
			return func(ctx context.Context, msg any) (any, error) {
				var thunk Thunk[S]
				switch fn := msg.(type) {
				case Thunk[S]:
					thunk = fn
				case func(context.Context, DispatchFunc, func() S) error:
					thunk = fn
				default:
					return next(ctx, msg)
				}
				err := thunk(ctx, api.Dispatch, api.GetState)
				if api.owner != nil {
					if err != nil {
						api.owner.logger.Warn("thunk failed", "err", err)
					}
					api.owner.emitThunkReturn(ctx, err)
				}
				return nil, err
			}
		}
	}
}

// LoggerMiddleware records every action with the state before and after it.
// The action passes through unchanged.
func LoggerMiddleware[S any](logger *slog.Logger) Middleware[S] {
	return func(api API[S]) func(next DispatchFunc) DispatchFunc {
		return func(next DispatchFunc) DispatchFunc {
			return func(ctx context.Context, msg any) (any, error) {
				action, ok := msg.(domain.Action)
				if !ok {
					return next(ctx, msg)
				}

				prev := api.GetState()
				start := time.Now()
				res, err := next(ctx, msg)
				if err != nil {
					logger.WarnContext(ctx, "dispatch failed", "action", action.Type, "err", err)
					return res, err
				}
				after := api.GetState()

				if logger.Enabled(ctx, slog.LevelDebug) {
					logger.DebugContext(ctx, "action",
						"type", action.Type,
						"payload", action.Payload,
						"prev_state", prev,
						"next_state", after,
						"changed", domain.Diff(prev, after).Keys(),
						"took", time.Since(start),
					)
				}
				return res, nil
			}
		}
	}
}

// Metrics holds the collectors used by MetricsMiddleware.
type Metrics struct {
	Dispatched *prometheus.CounterVec
	Errors     *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg (if non-nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendril_actions_dispatched_total",
				Help: "Total number of actions reduced by the store",
			},
			[]string{"type"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tendril_dispatch_errors_total",
				Help: "Total number of rejected dispatches",
			},
			[]string{"type"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tendril_dispatch_duration_seconds",
				Help:    "Duration of dispatches including middlewares below this one",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"type"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Dispatched, m.Errors, m.Duration)
	}
	return m
}

// MetricsMiddleware counts actions and measures dispatch latency.
func MetricsMiddleware[S any](m *Metrics) Middleware[S] {
	return func(api API[S]) func(next DispatchFunc) DispatchFunc {
		return func(next DispatchFunc) DispatchFunc {
			return func(ctx context.Context, msg any) (any, error) {
				action, ok := msg.(domain.Action)
				if !ok {
					return next(ctx, msg)
				}
				start := time.Now()
				res, err := next(ctx, msg)
				m.Duration.WithLabelValues(action.Type).Observe(time.Since(start).Seconds())
				if err != nil {
					m.Errors.WithLabelValues(action.Type).Inc()
					return res, err
				}
				m.Dispatched.WithLabelValues(action.Type).Inc()
				return res, nil
			}
		}
	}
}
