package usecase

import (
	"time"

	"energy-accounting-bot/internal/entry"
	"energy-accounting-bot/internal/entry/repository"
	"energy-accounting-bot/internal/entry/session"
	"energy-accounting-bot/pkg/log"
)

type implUseCase struct {
	l          log.Logger
	summarizer entry.Summarizer
	membership entry.Membership
	broadcast  entry.Broadcaster
	repo       repository.Repository
	sessions   *session.Store
	now        func() time.Time
}

// New creates the conversation state machine. All collaborators are injected
// so the machine runs against test doubles without a live model or database.
func New(
	l log.Logger,
	summarizer entry.Summarizer,
	membership entry.Membership,
	broadcast entry.Broadcaster,
	repo repository.Repository,
	sessions *session.Store,
) *implUseCase {
	return &implUseCase{
		l:          l,
		summarizer: summarizer,
		membership: membership,
		broadcast:  broadcast,
		repo:       repo,
		sessions:   sessions,
		now:        time.Now,
	}
}

// SetClock overrides the timestamp source. Tests only.
func (uc *implUseCase) SetClock(now func() time.Time) {
	uc.now = now
}
