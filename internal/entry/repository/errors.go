package repository

import "errors"

// Storage errors surfaced to the usecase layer. Driver details stay in the
// implementation's logs.
var (
	ErrFailedToInsert = errors.New("failed to insert entry")
	ErrFailedToList   = errors.New("failed to list entries")
)
