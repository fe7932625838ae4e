package telegram

import (
	"context"

	"energy-accounting-bot/internal/model"
	"energy-accounting-bot/pkg/log"
	pkgTelegram "energy-accounting-bot/pkg/telegram"
)

const reminderText = `Here's your friendly reminder to create your energy accounting logs if you haven't already for the day!

/start me in our private chat.`

// Reminder sends the daily logging nudge to every configured group.
type Reminder struct {
	l      log.Logger
	bot    *pkgTelegram.Bot
	groups []model.Group
}

// NewReminder creates the daily reminder sender.
func NewReminder(l log.Logger, bot *pkgTelegram.Bot, groups []model.Group) *Reminder {
	return &Reminder{l: l, bot: bot, groups: groups}
}

// SendAll posts the reminder to each group with a deep link into the bot's
// private chat. One failed group does not stop the rest.
func (r *Reminder) SendAll(ctx context.Context) error {
	var firstErr error
	for _, group := range r.groups {
		err := r.bot.Send(ctx, pkgTelegram.SendMessageRequest{
			ChatID: group.ID,
			Text:   reminderText,
			ReplyMarkup: pkgTelegram.InlineKeyboardMarkup{
				InlineKeyboard: [][]pkgTelegram.InlineKeyboardButton{
					{{Text: "Start Private Chat", URL: r.bot.Link()}},
				},
			},
		})
		if err != nil {
			r.l.Errorf(ctx, "reminder: failed to send to group %d: %v", group.ID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
