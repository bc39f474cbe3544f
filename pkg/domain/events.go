package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch    EventType = "dispatch"
	EventThunkReturn EventType = "thunk_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// DispatchEvent is emitted after the reducer ran for an action.
type DispatchEvent struct {
	EventBase
	ActionType string `json:"action_type"`
	Changed    bool   `json:"changed"`
}

// ThunkEvent is emitted when a thunk returns.
type ThunkEvent struct {
	EventBase
	IsError bool   `json:"is_error,omitempty"`
	Err     string `json:"err,omitempty"`
}

// LifecycleHooks defines callbacks for store observability.
type LifecycleHooks struct {
	OnDispatch    func(context.Context, *DispatchEvent)
	OnThunkReturn func(context.Context, *ThunkEvent)
}
