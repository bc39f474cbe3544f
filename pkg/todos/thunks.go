package todos

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/store"
)

// Selector extracts the todos slice from a root state.
type Selector[S any] func(S) State

// NewTodo is the body of POST /todos.
type NewTodo struct {
	Text string `json:"text"`
}

// FetchTodos loads the todos of a filter from the server.
//
// If a fetch for the same filter is already in flight (per the current state)
// it returns immediately without dispatching anything. The check is a state
// read, not a lock: concurrent callers may both pass it.
// Network failures are dispatched as FETCH_TODOS_FAILURE and not returned.
func FetchTodos[S any](client ports.Client, filter domain.Filter, sel Selector[S]) store.Thunk[S] {
	return func(ctx context.Context, dispatch store.DispatchFunc, getState func() S) error {
		if _, err := domain.ParseFilter(string(filter)); err != nil {
			return err
		}
		if GetIsFetching(sel(getState()), filter) {
			return nil
		}

		if _, err := dispatch(ctx, FetchRequested(filter)); err != nil {
			return err
		}

		list, err := fetchTodos(ctx, client, filter)
		if err != nil {
			_, dErr := dispatch(ctx, FetchFailed(filter, err.Error()))
			return dErr
		}

		_, err = dispatch(ctx, FetchSucceeded(filter, list))
		return err
	}
}

// AddTodo creates a todo on the server and merges the response.
func AddTodo[S any](client ports.Client, text string) store.Thunk[S] {
	return func(ctx context.Context, dispatch store.DispatchFunc, getState func() S) error {
		resp, err := client.Post(ctx, "/todos", NewTodo{Text: text})
		var todo domain.Todo
		if err == nil {
			err = resp.Decode(&todo)
		}
		if err != nil {
			_, dErr := dispatch(ctx, mutationFailed(ActionAddFailure, err))
			return dErr
		}
		_, err = dispatch(ctx, AddSucceeded(todo))
		return err
	}
}

// ToggleTodo flips a todo on the server and merges the response.
func ToggleTodo[S any](client ports.Client, id string) store.Thunk[S] {
	return func(ctx context.Context, dispatch store.DispatchFunc, getState func() S) error {
		resp, err := client.Patch(ctx, "/todos/"+url.PathEscape(id)+"/toggle", nil)
		var todo domain.Todo
		if err == nil {
			err = resp.Decode(&todo)
		}
		if err != nil {
			_, dErr := dispatch(ctx, mutationFailed(ActionToggleFailure, err))
			return dErr
		}
		_, err = dispatch(ctx, ToggleSucceeded(todo))
		return err
	}
}

func fetchTodos(ctx context.Context, client ports.Client, filter domain.Filter) ([]domain.Todo, error) {
	resp, err := client.Get(ctx, "/todos?filter="+url.QueryEscape(string(filter)))
	if err != nil {
		return nil, err
	}
	var list []domain.Todo
	if err := resp.Decode(&list); err != nil {
		return nil, fmt.Errorf("todos: %w", err)
	}
	return list, nil
}

func mutationFailed(actionType string, err error) domain.Action {
	msg := err.Error()
	if msg == "" {
		msg = domain.DefaultErrorMessage
	}
	return domain.Action{Type: actionType, Payload: MutationFailure{Message: msg}}
}
