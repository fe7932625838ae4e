package entry

import "errors"

// Domain-specific errors for the entry package.
var (
	// ErrSessionMissing is an invariant violation: an event arrived for a
	// conversation whose session or draft is unexpectedly absent. The state
	// machine never fabricates a default; the conversation restarts.
	ErrSessionMissing = errors.New("conversation session missing")

	// ErrPersist means the finalized entry could not be made durable.
	ErrPersist = errors.New("failed to persist entry")
)
