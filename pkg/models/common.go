package models

import (
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID string used for decision, event, and rule ids.
func NewUUID() string {
	return uuid.New().String()
}

// Timestamps holds common bookkeeping fields for persisted records.
type Timestamps struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
