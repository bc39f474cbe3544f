package domain

import (
	"fmt"
	"time"
)

// ActionInit is reduced against an absent state to obtain the initial state.
const ActionInit = "@@tendril/INIT"

// Action describes an intended state change.
// Actions are values: once dispatched they are never mutated.
type Action struct {
	Type    string `json:"type"`              // e.g., "INCREMENT", "posts/postAdded"
	Payload any    `json:"payload,omitempty"` // Data the transition needs
	Error   any    `json:"error,omitempty"`   // Set on failure actions
	Meta    any    `json:"meta,omitempty"`    // Bookkeeping (request ids, filters)
}

// Validate reports whether the action can be dispatched.
func (a Action) Validate() error {
	if a.Type == "" {
		return fmt.Errorf("%w: missing type", ErrMalformedAction)
	}
	return nil
}

// SerializedError is the Error value carried by "rejected" actions.
type SerializedError struct {
	Message string `json:"message"`
}

func (e SerializedError) Error() string {
	return e.Message
}

// ErrorMessage extracts a human readable message from an action's Error field.
func (a Action) ErrorMessage() string {
	switch e := a.Error.(type) {
	case nil:
		return ""
	case SerializedError:
		return e.Message
	case *SerializedError:
		if e == nil {
			return ""
		}
		return e.Message
	case error:
		return e.Error()
	case string:
		return e
	default:
		return fmt.Sprintf("%v", e)
	}
}

// Preparer computes the non-deterministic parts of a payload (ids, timestamps)
// before an action reaches a reducer.
type Preparer struct {
	NewID func() string
	Now   func() time.Time
}

// DefaultPreparer generates UUIDv7 ids and reads the wall clock.
var DefaultPreparer = Preparer{
	NewID: NewID,
	Now:   time.Now,
}

// Timestamp returns the current time as an RFC 3339 string in UTC.
func (p Preparer) Timestamp() string {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(time.RFC3339Nano)
}

// ID returns a fresh id.
func (p Preparer) ID() string {
	if p.NewID == nil {
		return NewID()
	}
	return p.NewID()
}
