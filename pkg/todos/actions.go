package todos

import "github.com/aretw0/tendril/pkg/domain"

// Action types handled by Reduce.
const (
	ActionFetchRequest  = "FETCH_TODOS_REQUEST"
	ActionFetchSuccess  = "FETCH_TODOS_SUCCESS"
	ActionFetchFailure  = "FETCH_TODOS_FAILURE"
	ActionAddSuccess    = "ADD_TODO_SUCCESS"
	ActionAddFailure    = "ADD_TODO_FAILURE"
	ActionToggleSuccess = "TOGGLE_TODO_SUCCESS"
	ActionToggleFailure = "TOGGLE_TODO_FAILURE"
)

// FetchRequest is the payload of FETCH_TODOS_REQUEST.
type FetchRequest struct {
	Filter domain.Filter `json:"filter"`
}

// FetchSuccess is the payload of FETCH_TODOS_SUCCESS.
type FetchSuccess struct {
	Filter   domain.Filter `json:"filter"`
	Response Normalized    `json:"response"`
}

// FetchFailure is the payload of FETCH_TODOS_FAILURE.
type FetchFailure struct {
	Filter  domain.Filter `json:"filter"`
	Message string        `json:"message"`
}

// MutationFailure is the payload of ADD_TODO_FAILURE and TOGGLE_TODO_FAILURE.
type MutationFailure struct {
	Message string `json:"message"`
}

// FetchRequested creates a FETCH_TODOS_REQUEST action.
func FetchRequested(f domain.Filter) domain.Action {
	return domain.Action{Type: ActionFetchRequest, Payload: FetchRequest{Filter: f}}
}

// FetchSucceeded creates a FETCH_TODOS_SUCCESS action.
func FetchSucceeded(f domain.Filter, response []domain.Todo) domain.Action {
	return domain.Action{Type: ActionFetchSuccess, Payload: FetchSuccess{Filter: f, Response: Normalize(response)}}
}

// FetchFailed creates a FETCH_TODOS_FAILURE action.
// An empty message falls back to domain.DefaultErrorMessage.
func FetchFailed(f domain.Filter, message string) domain.Action {
	if message == "" {
		message = domain.DefaultErrorMessage
	}
	return domain.Action{Type: ActionFetchFailure, Payload: FetchFailure{Filter: f, Message: message}}
}

// AddSucceeded creates an ADD_TODO_SUCCESS action.
func AddSucceeded(todo domain.Todo) domain.Action {
	return domain.Action{Type: ActionAddSuccess, Payload: NormalizeOne(todo)}
}

// ToggleSucceeded creates a TOGGLE_TODO_SUCCESS action.
func ToggleSucceeded(todo domain.Todo) domain.Action {
	return domain.Action{Type: ActionToggleSuccess, Payload: NormalizeOne(todo)}
}

// Payloads maps each action type to its payload prototype, for decoders.
func Payloads() map[string]any {
	return map[string]any{
		ActionFetchRequest:  FetchRequest{},
		ActionFetchSuccess:  FetchSuccess{},
		ActionFetchFailure:  FetchFailure{},
		ActionAddSuccess:    Normalized{},
		ActionAddFailure:    MutationFailure{},
		ActionToggleSuccess: Normalized{},
		ActionToggleFailure: MutationFailure{},
	}
}
