package todos

import "github.com/aretw0/tendril/pkg/domain"

// GetVisibleTodos returns the todos of a filter in server order.
// Unknown filters yield an empty list.
func GetVisibleTodos(state State, filter domain.Filter) []domain.Todo {
	list, ok := state.ListByFilter.Get(filter)
	if !ok {
		return []domain.Todo{}
	}
	out := make([]domain.Todo, 0, len(list.IDs))
	for _, id := range list.IDs {
		if todo, ok := state.ByID[id]; ok {
			out = append(out, todo)
		}
	}
	return out
}

// GetIsFetching reports whether a fetch for filter is in flight.
func GetIsFetching(state State, filter domain.Filter) bool {
	list, _ := state.ListByFilter.Get(filter)
	return list.IsFetching
}

// GetErrorMessage returns the message of the last failed fetch for filter, if any.
func GetErrorMessage(state State, filter domain.Filter) string {
	list, _ := state.ListByFilter.Get(filter)
	return list.ErrorMessage
}
