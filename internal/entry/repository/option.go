package repository

import (
	"time"

	"energy-accounting-bot/internal/model"
)

// CreateEntryOptions holds the finalized draft's fields for insertion.
type CreateEntryOptions struct {
	OwnerID          int64
	OwnerDisplayName string
	GroupID          int64
	GroupLabel       string
	Hours            float64
	Tasks            []model.Task
	CreatedAt        time.Time
}

// ListEntriesSinceOptions selects a group's entries created on or after Since,
// tasks included. Feeds report aggregation.
type ListEntriesSinceOptions struct {
	GroupID int64
	Since   time.Time
}
