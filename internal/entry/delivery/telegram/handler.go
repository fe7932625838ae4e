package telegram

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"energy-accounting-bot/internal/entry"
	"energy-accounting-bot/internal/model"
	pkgResponse "energy-accounting-bot/pkg/response"
	pkgTelegram "energy-accounting-bot/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a
// background goroutine: the extraction and persistence calls can take
// seconds, and Telegram expects the webhook to answer fast.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, err)
		return
	}

	// Ignore non-message updates (polls, channel_post, etc.)
	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	msg := update.Message
	go func() {
		// Detach from the HTTP request context, which is cancelled as soon
		// as the 200 goes out.
		bgCtx := context.Background()
		unlock := h.lockChat(msg.Chat.ID)
		defer unlock()
		h.processMessage(bgCtx, msg)
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage routes a single Telegram message into the state machine.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) {
	if msg.From == nil {
		h.l.Warnf(ctx, "telegram handler: message %d has no sender", msg.MessageID)
		return
	}

	// The entry flow only runs in private chats. In group chats the bot
	// answers /start with a deep link to its private chat and stays silent
	// otherwise.
	if msg.Chat.Type != "private" {
		if msg.Text == "/start" {
			h.sendPrivateChatPrompt(ctx, msg)
		}
		return
	}

	sc := model.Scope{
		UserID:      msg.From.ID,
		DisplayName: msg.From.DisplayName(),
	}

	var (
		replies []entry.Reply
		err     error
	)
	switch {
	case msg.Text == "/start":
		replies, err = h.uc.Start(ctx, sc, msg.Chat.ID)
	case msg.Text == "/cancel":
		replies, err = h.uc.Cancel(ctx, sc, msg.Chat.ID)
	case msg.Text == "/report":
		// Manual trigger for the periodic report, useful when verifying a
		// deployment.
		if reportErr := h.reports.BroadcastAll(ctx); reportErr != nil {
			h.l.Errorf(ctx, "telegram handler: manual report failed: %v", reportErr)
		}
		return
	case msg.Voice != nil:
		replies, err = h.handleVoice(ctx, sc, msg)
	default:
		replies, err = h.uc.HandleText(ctx, sc, msg.Chat.ID, msg.Text)
	}
	if err != nil {
		// Replies may still carry the user-facing failure message; the error
		// itself is an operational signal.
		h.l.Errorf(ctx, "telegram handler: event processing failed for chat %d: %v", msg.Chat.ID, err)
	}
	h.sendReplies(ctx, msg.Chat.ID, replies)
}

// handleVoice downloads and transcribes a voice note, then feeds the
// transcript into the same raw-input path as typed text.
func (h *handler) handleVoice(ctx context.Context, sc model.Scope, msg *pkgTelegram.Message) ([]entry.Reply, error) {
	audio, err := h.bot.DownloadFile(ctx, msg.Voice.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to download voice file: %w", err)
	}
	defer audio.Close()

	filename := fmt.Sprintf("voice_message-%d.ogg", msg.MessageID)
	transcript, err := h.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe voice message: %w", err)
	}

	return h.uc.HandleText(ctx, sc, msg.Chat.ID, transcript)
}

// sendReplies translates state-machine replies into Bot API sends.
func (h *handler) sendReplies(ctx context.Context, chatID int64, replies []entry.Reply) {
	for _, reply := range replies {
		req := pkgTelegram.SendMessageRequest{
			ChatID: chatID,
			Text:   reply.Text,
		}
		if reply.Markdown {
			req.ParseMode = "Markdown"
		}
		switch {
		case len(reply.Keyboard) > 0:
			req.ReplyMarkup = pkgTelegram.ReplyKeyboardMarkup{
				Keyboard:              reply.Keyboard,
				OneTimeKeyboard:       true,
				ResizeKeyboard:        true,
				InputFieldPlaceholder: reply.Placeholder,
			}
		case reply.RemoveKeyboard:
			req.ReplyMarkup = pkgTelegram.ReplyKeyboardRemove{RemoveKeyboard: true}
		}

		if err := h.bot.Send(ctx, req); err != nil {
			h.l.Errorf(ctx, "telegram handler: failed to send reply to chat %d: %v", chatID, err)
		}
	}
}

func (h *handler) sendPrivateChatPrompt(ctx context.Context, msg *pkgTelegram.Message) {
	text := fmt.Sprintf("%s, please click the button below to open our private chat, then try again with /start. Thank you!",
		msg.From.DisplayName())
	err := h.bot.Send(ctx, pkgTelegram.SendMessageRequest{
		ChatID: msg.Chat.ID,
		Text:   text,
		ReplyMarkup: pkgTelegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]pkgTelegram.InlineKeyboardButton{
				{{Text: "Start Private Chat", URL: h.bot.Link()}},
			},
		},
	})
	if err != nil {
		h.l.Warnf(ctx, "telegram handler: failed to send private chat prompt: %v", err)
	}
}
