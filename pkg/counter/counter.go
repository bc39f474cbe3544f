// Package counter is the smallest reducer: an integer moved by INCREMENT and DECREMENT.
package counter

import "github.com/aretw0/tendril/pkg/domain"

// Action types handled by Reduce.
const (
	ActionIncrement = "INCREMENT"
	ActionDecrement = "DECREMENT"
)

// Reduce returns the next count. An absent state starts at 0.
func Reduce(state *int, action domain.Action) int {
	if state == nil {
		return 0
	}

	switch action.Type {
	case ActionIncrement:
		return *state + 1
	case ActionDecrement:
		return *state - 1
	default:
		return *state
	}
}

// Increment creates an INCREMENT action.
func Increment() domain.Action {
	return domain.Action{Type: ActionIncrement}
}

// Decrement creates a DECREMENT action.
func Decrement() domain.Action {
	return domain.Action{Type: ActionDecrement}
}

// Payloads lists the counter action types. Neither carries a payload.
func Payloads() map[string]any {
	return map[string]any{
		ActionIncrement: nil,
		ActionDecrement: nil,
	}
}
