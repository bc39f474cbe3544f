package domain

import "fmt"

// Filter selects a subset of todos.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every known filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter validates a filter name. The empty string means "all".
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return Filter(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// Matches reports whether a todo belongs to the filter.
func (f Filter) Matches(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// FetchStatus tracks the lifecycle of a collection fetch.
type FetchStatus string

const (
	StatusIdle      FetchStatus = "idle"
	StatusLoading   FetchStatus = "loading"
	StatusSucceeded FetchStatus = "succeeded"
	StatusFailed    FetchStatus = "failed"
)

// DefaultErrorMessage is used when a failure carries no message of its own.
const DefaultErrorMessage = "Something went wrong."
