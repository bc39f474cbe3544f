// Package http exposes a tendril.App over REST: state reads, action dispatch,
// the bound thunks, a Server-Sent Events stream of state diffs and Prometheus
// metrics.
package http
