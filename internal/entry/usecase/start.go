package usecase

import (
	"context"
	"fmt"

	"energy-accounting-bot/internal/entry"
	"energy-accounting-bot/internal/entry/session"
	"energy-accounting-bot/internal/model"
)

// Start opens (or restarts) the conversation for a chat. The initial state
// depends on how many groups the user may report into: zero terminates with
// guidance, one binds the group and goes straight to raw input, several
// offers a selection keyboard.
func (uc *implUseCase) Start(ctx context.Context, sc model.Scope, chatID int64) ([]entry.Reply, error) {
	// A fresh /start always supersedes whatever was in flight.
	uc.sessions.Clear(chatID)

	groups, err := uc.membership.AccessibleGroups(ctx, sc.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accessible groups: %w", err)
	}

	welcome := entry.Reply{Text: msgWelcome}

	switch len(groups) {
	case 0:
		uc.l.Infof(ctx, "start: user %d has no eligible groups", sc.UserID)
		return []entry.Reply{welcome, {Text: msgNoEligibleGroups, RemoveKeyboard: true}}, nil

	case 1:
		group := groups[0]
		uc.sessions.Put(chatID, &session.Session{
			State:      session.StateAwaitingRawInput,
			Group:      group,
			GroupBound: true,
		})
		text := fmt.Sprintf("You're part of just the one reporting group (%s), so I'll take it that you're doing energy accounting for that. %s",
			group.Label, msgTellMeWhatYouDid)
		return []entry.Reply{welcome, {Text: text}}, nil

	default:
		candidates := make(model.SelectableGroups, len(groups))
		for _, group := range groups {
			candidates[group.Label] = group
		}
		uc.sessions.Put(chatID, &session.Session{
			State:      session.StateAwaitingGroupSelection,
			Candidates: candidates,
		})
		return []entry.Reply{welcome, keyboardMarkdownReply(msgChooseGroup, candidates.Labels(), msgChooseGroupPlaceholder)}, nil
	}
}
