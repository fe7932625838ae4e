package repository

import (
	"context"

	"energy-accounting-bot/internal/model"
)

// Repository is the persistence contract for finalized entries. CreateEntry
// is a single logical unit: the entry row and all its task rows become
// durable together or not at all.
type Repository interface {
	CreateEntry(ctx context.Context, opt CreateEntryOptions) (model.Entry, error)
	ListEntriesSince(ctx context.Context, opt ListEntriesSinceOptions) ([]model.Entry, error)
}
