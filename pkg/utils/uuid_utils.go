package utils

import (
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

var newUUIDv7 = uuid.NewV7

// GenerateUUIDv7 generates a new UUID v7
func GenerateUUIDv7() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		// Fallback to v4 if v7 fails (highly unlikely)
		return uuid.New()
	}
	return id
}

// NewContentID returns a time-sortable id for posts and ideas
func NewContentID() string {
	return ksuid.New().String()
}
