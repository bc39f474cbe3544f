package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tally struct {
	Count int      `json:"count"`
	Log   []string `json:"log"`
}

func reduceTally(state *tally, action domain.Action) tally {
	if state == nil {
		return tally{Log: []string{}}
	}
	switch action.Type {
	case "ADD":
		next := *state
		next.Count++
		next.Log = append(append([]string{}, state.Log...), "add")
		return next
	case "SUB":
		next := *state
		next.Count--
		return next
	default:
		return *state
	}
}

func TestStore_InitialState(t *testing.T) {
	s := store.New(reduceTally)
	assert.Equal(t, 0, s.GetState().Count)
	assert.NotNil(t, s.GetState().Log)
}

func TestStore_DispatchReturnsAction(t *testing.T) {
	s := store.New(reduceTally)
	action := domain.Action{Type: "ADD", Meta: "m"}

	res, err := s.Dispatch(context.Background(), action)
	require.NoError(t, err)
	assert.Equal(t, action, res)
	assert.Equal(t, 1, s.GetState().Count)
}

func TestStore_UnknownActionIsIdentity(t *testing.T) {
	s := store.New(reduceTally)
	ctx := context.Background()
	_, _ = s.Dispatch(ctx, domain.Action{Type: "ADD"})
	before := s.GetState()

	_, err := s.Dispatch(ctx, domain.Action{Type: "WHATEVER"})
	require.NoError(t, err)
	assert.Equal(t, before, s.GetState())
}

func TestStore_MalformedAction(t *testing.T) {
	s := store.New(reduceTally)
	ctx := context.Background()

	_, err := s.Dispatch(ctx, domain.Action{})
	assert.ErrorIs(t, err, domain.ErrMalformedAction)

	_, err = s.Dispatch(ctx, "INCREMENT")
	assert.ErrorIs(t, err, domain.ErrMalformedAction)

	// Thunks are malformed without the thunk middleware.
	var thunk store.Thunk[tally] = func(ctx context.Context, dispatch store.DispatchFunc, getState func() tally) error {
		return nil
	}
	_, err = s.Dispatch(ctx, thunk)
	assert.ErrorIs(t, err, domain.ErrMalformedAction)

	assert.Equal(t, 0, s.GetState().Count)
}

func TestStore_ReducerDoesNotMutatePreviousSnapshot(t *testing.T) {
	s := store.New(reduceTally)
	ctx := context.Background()
	_, _ = s.Dispatch(ctx, domain.Action{Type: "ADD"})
	snapshot := s.GetState()

	_, _ = s.Dispatch(ctx, domain.Action{Type: "ADD"})
	assert.Equal(t, 1, snapshot.Count)
	assert.Equal(t, []string{"add"}, snapshot.Log)
	assert.Equal(t, []string{"add", "add"}, s.GetState().Log)
}

func TestStore_SubscribeOrder(t *testing.T) {
	s := store.New(reduceTally)
	var calls []string
	s.Subscribe(func() { calls = append(calls, "first") })
	s.Subscribe(func() { calls = append(calls, "second") })

	_, err := s.Dispatch(context.Background(), domain.Action{Type: "ADD"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestStore_ListenerSeesNewState(t *testing.T) {
	s := store.New(reduceTally)
	seen := -1
	s.Subscribe(func() { seen = s.GetState().Count })

	_, _ = s.Dispatch(context.Background(), domain.Action{Type: "ADD"})
	assert.Equal(t, 1, seen)
}

func TestStore_UnsubscribeDuringNotification(t *testing.T) {
	s := store.New(reduceTally)
	var calls []string

	var unsubSecond func()
	s.Subscribe(func() {
		calls = append(calls, "first")
		unsubSecond()
	})
	unsubSecond = s.Subscribe(func() { calls = append(calls, "second") })

	ctx := context.Background()
	_, _ = s.Dispatch(ctx, domain.Action{Type: "ADD"})
	// The in-flight pass still reaches "second".
	assert.Equal(t, []string{"first", "second"}, calls)

	calls = nil
	_, _ = s.Dispatch(ctx, domain.Action{Type: "ADD"})
	assert.Equal(t, []string{"first"}, calls)

	// Idempotent.
	unsubSecond()
}

func TestStore_Close(t *testing.T) {
	s := store.New(reduceTally)
	called := false
	s.Subscribe(func() { called = true })

	s.Close()

	_, err := s.Dispatch(context.Background(), domain.Action{Type: "ADD"})
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
	assert.False(t, called)
	assert.Equal(t, 0, s.GetState().Count)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := store.New(reduceTally)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Dispatch(ctx, domain.Action{Type: "ADD"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, s.GetState().Count)
	assert.Len(t, s.GetState().Log, 100)
}

func TestStore_DeterministicReplay(t *testing.T) {
	actions := []domain.Action{
		{Type: "ADD"}, {Type: "ADD"}, {Type: "SUB"}, {Type: "NOPE"}, {Type: "ADD"},
	}
	run := func() tally {
		s := store.New(reduceTally)
		for _, a := range actions {
			_, _ = s.Dispatch(context.Background(), a)
		}
		return s.GetState()
	}
	assert.Equal(t, run(), run())
}

func TestStore_LifecycleHooks(t *testing.T) {
	var events []domain.DispatchEvent
	s := store.New(reduceTally, store.WithLifecycleHooks[tally](domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			events = append(events, *e)
		},
	}))

	ctx := context.Background()
	_, _ = s.Dispatch(ctx, domain.Action{Type: "ADD"})
	_, _ = s.Dispatch(ctx, domain.Action{Type: "NOPE"})

	require.Len(t, events, 2)
	assert.Equal(t, "ADD", events[0].ActionType)
	assert.True(t, events[0].Changed)
	assert.Equal(t, domain.EventDispatch, events[0].Type)
	assert.Equal(t, "NOPE", events[1].ActionType)
	assert.False(t, events[1].Changed)
}

func TestSub(t *testing.T) {
	var absent *tally
	assert.Nil(t, store.Sub(absent, func(t *tally) *int { return &t.Count }))

	present := &tally{Count: 3}
	assert.Equal(t, 3, *store.Sub(present, func(t *tally) *int { return &t.Count }))
}

func TestGo(t *testing.T) {
	s := store.New(reduceTally)
	err := <-store.Go(context.Background(), s, domain.Action{Type: "ADD"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.GetState().Count)

	err = <-store.Go(context.Background(), s, domain.Action{})
	assert.True(t, errors.Is(err, domain.ErrMalformedAction))
}
