package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new opaque identifier for notes, users and sessions.
func GenerateID() string {
	return uuid.NewString()
}
