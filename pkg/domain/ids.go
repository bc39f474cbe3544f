package domain

import "github.com/google/uuid"

// NewID returns a time-ordered unique identifier (UUIDv7).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Only fails when the random source does.
		return uuid.NewString()
	}
	return id.String()
}
