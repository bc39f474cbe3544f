package store

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/domain"
)

// Reducer computes the next state for an action.
// A nil state means the state has not been initialized yet: the reducer must
// return its initial state and ignore the action. Reducers never write through
// the pointer.
type Reducer[S any] func(state *S, action domain.Action) S

// DispatchFunc sends an action (or anything a middleware understands, such as a
// Thunk) through the store.
type DispatchFunc func(ctx context.Context, msg any) (any, error)

// listener is a subscribed callback. The pointer identity is the subscription.
type listener struct {
	fn func()
}

// Store holds the current state and serializes every transition through Dispatch.
// Safe for concurrent use.
type Store[S any] struct {
	mu        sync.RWMutex
	state     S
	reducer   Reducer[S]
	listeners []*listener
	closed    bool

	dispatch    DispatchFunc
	middlewares []Middleware[S]
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// New creates a store whose initial state is reducer(nil, ActionInit).
func New[S any](reducer Reducer[S], opts ...Option[S]) *Store[S] {
	s := &Store[S]{
		reducer: reducer,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = reducer(nil, domain.Action{Type: domain.ActionInit})

	api := API[S]{
		owner:    s,
		GetState: s.GetState,
		Dispatch: func(ctx context.Context, msg any) (any, error) {
			return s.dispatch(ctx, msg)
		},
	}
	s.dispatch = Chain(s.middlewares...)(api)(s.baseDispatch)

	return s
}

// GetState returns the current state snapshot.
// Callers must treat it as read-only.
func (s *Store[S]) GetState() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch runs msg through the middleware chain and, for plain actions, the reducer.
// For an Action it returns the action unchanged.
func (s *Store[S]) Dispatch(ctx context.Context, msg any) (any, error) {
	return s.dispatch(ctx, msg)
}

// Subscribe registers a listener invoked after every successful dispatch.
// The returned function removes it; calling it more than once is a no-op.
func (s *Store[S]) Subscribe(fn func()) func() {
	l := &listener{fn: fn}

	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, cur := range s.listeners {
				if cur == l {
					// Build a new slice so in-flight snapshots keep their view.
					next := make([]*listener, 0, len(s.listeners)-1)
					next = append(next, s.listeners[:i]...)
					next = append(next, s.listeners[i+1:]...)
					s.listeners = next
					return
				}
			}
		})
	}
}

// Close clears all subscribers. Later dispatches fail with domain.ErrStoreClosed.
func (s *Store[S]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = nil
}

// baseDispatch is the innermost link of the chain: reduce, swap, notify.
func (s *Store[S]) baseDispatch(ctx context.Context, msg any) (any, error) {
	action, ok := msg.(domain.Action)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported message type %T (is the thunk middleware installed?)", domain.ErrMalformedAction, msg)
	}
	if err := action.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrStoreClosed
	}
	prev := s.state
	next := s.reducer(&prev, action)
	s.state = next
	snapshot := s.listeners
	s.mu.Unlock()

	s.emitDispatch(ctx, action, prev, next)

	for _, l := range snapshot {
		l.fn()
	}

	return action, nil
}

func (s *Store[S]) emitDispatch(ctx context.Context, action domain.Action, prev, next S) {
	if s.hooks.OnDispatch == nil {
		return
	}
	s.hooks.OnDispatch(ctx, &domain.DispatchEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventDispatch,
		},
		ActionType: action.Type,
		Changed:    !reflect.DeepEqual(prev, next),
	})
}

func (s *Store[S]) emitThunkReturn(ctx context.Context, err error) {
	if s.hooks.OnThunkReturn == nil {
		return
	}
	evt := &domain.ThunkEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventThunkReturn,
		},
		IsError: err != nil,
	}
	if err != nil {
		evt.Err = err.Error()
	}
	s.hooks.OnThunkReturn(ctx, evt)
}

// Sub returns a pointer to a field of a possibly absent parent state.
// Root reducers use it so that sub-reducers see nil while the root is uninitialized.
func Sub[S, T any](parent *S, field func(*S) *T) *T {
	if parent == nil {
		return nil
	}
	return field(parent)
}
