package domain

import "errors"

// ErrMalformedAction is returned when something dispatched is not a valid action.
var ErrMalformedAction = errors.New("malformed action")

// ErrUnknownFilter is returned when a todo filter is not one of all, active or completed.
var ErrUnknownFilter = errors.New("unknown filter")

// ErrNotFound is returned when an entity id cannot be found.
var ErrNotFound = errors.New("not found")

// ErrStoreClosed is returned when dispatching to a store that has been closed.
var ErrStoreClosed = errors.New("store closed")
