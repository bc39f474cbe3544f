/*
Package store implements the state container: a Store holds the current state,
applies a pure Reducer to every dispatched action and notifies subscribers after
each transition.

Dispatches may be intercepted by an ordered chain of Middleware. Three are
provided:

  - ThunkMiddleware runs Thunk values (multi-step, possibly asynchronous
    sequences) instead of reducing them.
  - LoggerMiddleware logs each action with the state before and after it.
  - MetricsMiddleware exports Prometheus counters and latency histograms.

All state replacement is serialized by the store; thunks run on the caller's
goroutine and may block on I/O without blocking other dispatchers.
*/
package store
