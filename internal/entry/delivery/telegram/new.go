package telegram

import (
	"context"
	"io"
	"sync"

	"github.com/gin-gonic/gin"

	"energy-accounting-bot/internal/entry"
	"energy-accounting-bot/internal/report"
	"energy-accounting-bot/pkg/log"
	pkgTelegram "energy-accounting-bot/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// Transcriber turns a voice recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type handler struct {
	l           log.Logger
	uc          entry.UseCase
	bot         *pkgTelegram.Bot
	transcriber Transcriber
	reports     *report.Service

	// chatLocks serializes event processing per chat: one session, one
	// writer, events handled to completion in arrival order.
	chatLocks sync.Map // int64 -> *sync.Mutex
}

// New creates a new Telegram delivery handler.
func New(l log.Logger, uc entry.UseCase, bot *pkgTelegram.Bot, transcriber Transcriber, reports *report.Service) Handler {
	return &handler{
		l:           l,
		uc:          uc,
		bot:         bot,
		transcriber: transcriber,
		reports:     reports,
	}
}

func (h *handler) lockChat(chatID int64) func() {
	value, _ := h.chatLocks.LoadOrStore(chatID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
