package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// SignalError is the cancellation cause recorded when a shutdown signal
// arrives.
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return "received signal " + e.Signal.String()
}

// NotifyContext returns a context cancelled on SIGINT or SIGTERM. The
// signal is kept as the context's cause; read it back with CaughtSignal.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			cancel(&SignalError{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// CaughtSignal reports the signal that cancelled ctx, or nil when ctx is
// still live or ended for another reason.
func CaughtSignal(ctx context.Context) os.Signal {
	var se *SignalError
	if errors.As(context.Cause(ctx), &se) {
		return se.Signal
	}
	return nil
}
