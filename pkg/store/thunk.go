package store

import (
	"context"

	"github.com/aretw0/tendril/pkg/domain"
)

// Thunk is dispatched in place of an action to run a multi-step sequence,
// typically a request followed by a success or failure action.
// It requires ThunkMiddleware.
type Thunk[S any] func(ctx context.Context, dispatch DispatchFunc, getState func() S) error

// Request lifecycle suffixes appended to an AsyncThunk type prefix.
const (
	SuffixPending   = "/pending"
	SuffixFulfilled = "/fulfilled"
	SuffixRejected  = "/rejected"
)

// ThunkMeta is the Meta of every action an AsyncThunk dispatches.
type ThunkMeta struct {
	RequestID     string `json:"requestId"`
	RequestStatus string `json:"requestStatus"`
}

// AsyncThunk builds a thunk that dispatches <prefix>/pending, runs payload
// exactly once, then dispatches <prefix>/fulfilled with the result or
// <prefix>/rejected with a SerializedError. Failures of payload are recovered
// here and never returned to the dispatcher.
func AsyncThunk[S, T any](prefix string, payload func(ctx context.Context, getState func() S) (T, error)) Thunk[S] {
	return func(ctx context.Context, dispatch DispatchFunc, getState func() S) error {
		requestID := domain.NewID()

		if _, err := dispatch(ctx, domain.Action{
			Type: prefix + SuffixPending,
			Meta: ThunkMeta{RequestID: requestID, RequestStatus: "pending"},
		}); err != nil {
			return err
		}

		result, err := payload(ctx, getState)
		if err != nil {
			msg := err.Error()
			if msg == "" {
				msg = domain.DefaultErrorMessage
			}
			_, dErr := dispatch(ctx, domain.Action{
				Type:  prefix + SuffixRejected,
				Error: domain.SerializedError{Message: msg},
				Meta:  ThunkMeta{RequestID: requestID, RequestStatus: "rejected"},
			})
			return dErr
		}

		_, dErr := dispatch(ctx, domain.Action{
			Type:    prefix + SuffixFulfilled,
			Payload: result,
			Meta:    ThunkMeta{RequestID: requestID, RequestStatus: "fulfilled"},
		})
		return dErr
	}
}

// Dispatcher is the part of a Store that Go needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg any) (any, error)
}

// Go dispatches msg on its own goroutine. The returned channel yields the
// dispatch error (nil on success) once and is then closed.
func Go(ctx context.Context, d Dispatcher, msg any) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := d.Dispatch(ctx, msg)
		done <- err
	}()
	return done
}
