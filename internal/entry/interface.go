package entry

import (
	"context"

	"energy-accounting-bot/internal/model"
)

// UseCase is the conversation state machine for building one energy
// accounting entry. Events for a given chat must be delivered serially; the
// delivery layer owns that discipline.
type UseCase interface {
	// Start opens a conversation: resolves the groups the user may report
	// into and picks the initial state (no group → terminated with guidance,
	// one group → straight to raw input, several → group selection).
	Start(ctx context.Context, sc model.Scope, chatID int64) ([]Reply, error)

	// HandleText feeds a text event (or a voice transcript) into whatever
	// state the chat's session is in.
	HandleText(ctx context.Context, sc model.Scope, chatID int64, text string) ([]Reply, error)

	// Cancel clears the session from any non-terminal state.
	Cancel(ctx context.Context, sc model.Scope, chatID int64) ([]Reply, error)
}

// Summarizer is the opaque extraction service: narrated work in, structured
// JSON text (or failure) out.
type Summarizer interface {
	Summarize(ctx context.Context, prose string) (string, error)
}

// Membership resolves which configured groups a user may report into.
type Membership interface {
	AccessibleGroups(ctx context.Context, userID int64) ([]model.Group, error)
}

// Broadcaster posts a finalized entry's rendering to its destination group.
type Broadcaster interface {
	Broadcast(ctx context.Context, group model.Group, text string) error
}
