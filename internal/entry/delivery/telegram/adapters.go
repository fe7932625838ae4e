package telegram

import (
	"context"

	"energy-accounting-bot/internal/model"
	"energy-accounting-bot/pkg/log"
	pkgTelegram "energy-accounting-bot/pkg/telegram"
)

// eligibleStatuses are the chat-member statuses that make a group
// reportable for a user.
var eligibleStatuses = map[string]bool{
	"member":        true,
	"creator":       true,
	"administrator": true,
}

// Membership resolves a user's eligible groups by asking the Bot API for
// their membership in each configured group.
type Membership struct {
	l      log.Logger
	bot    *pkgTelegram.Bot
	groups []model.Group
}

// NewMembership creates a Bot-API-backed Membership over the configured
// group set.
func NewMembership(l log.Logger, bot *pkgTelegram.Bot, groups []model.Group) *Membership {
	return &Membership{l: l, bot: bot, groups: groups}
}

// AccessibleGroups returns the configured groups the user belongs to, with
// display labels resolved from chat titles when the config does not name them.
func (m *Membership) AccessibleGroups(ctx context.Context, userID int64) ([]model.Group, error) {
	var accessible []model.Group
	for _, group := range m.groups {
		member, err := m.bot.GetChatMember(ctx, group.ID, userID)
		if err != nil {
			// A single unreachable group must not hide the others.
			m.l.Warnf(ctx, "membership: getChatMember failed for group %d: %v", group.ID, err)
			continue
		}
		if !eligibleStatuses[member.Status] {
			continue
		}
		if group.Label == "" {
			chat, err := m.bot.GetChat(ctx, group.ID)
			if err != nil {
				m.l.Warnf(ctx, "membership: getChat failed for group %d: %v", group.ID, err)
			} else {
				group.Label = chat.Title
			}
		}
		accessible = append(accessible, group)
	}
	return accessible, nil
}

// Broadcaster posts entry renderings and reports to a group's topic thread.
type Broadcaster struct {
	bot *pkgTelegram.Bot
}

// NewBroadcaster creates a Bot-API-backed Broadcaster.
func NewBroadcaster(bot *pkgTelegram.Bot) *Broadcaster {
	return &Broadcaster{bot: bot}
}

// Broadcast sends the text to the group, into its configured topic when set.
func (b *Broadcaster) Broadcast(ctx context.Context, group model.Group, text string) error {
	return b.bot.Send(ctx, pkgTelegram.SendMessageRequest{
		ChatID:          group.ID,
		MessageThreadID: group.ThreadID,
		Text:            text,
		ParseMode:       "Markdown",
	})
}
