package report

import (
	"context"
	"fmt"
	"time"

	"energy-accounting-bot/internal/entry"
	"energy-accounting-bot/internal/entry/repository"
	"energy-accounting-bot/internal/model"
	"energy-accounting-bot/pkg/log"
)

// Service generates and broadcasts the periodic reports for every
// configured group.
type Service struct {
	l         log.Logger
	repo      repository.Repository
	broadcast entry.Broadcaster
	groups    []model.Group
	interval  time.Duration
	now       func() time.Time
}

// NewService creates the reporting service. interval is the look-back window
// (one week in production).
func NewService(l log.Logger, repo repository.Repository, broadcast entry.Broadcaster, groups []model.Group, interval time.Duration) *Service {
	return &Service{
		l:         l,
		repo:      repo,
		broadcast: broadcast,
		groups:    groups,
		interval:  interval,
		now:       time.Now,
	}
}

// SetClock overrides the timestamp source. Tests only.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// BroadcastAll renders each group's report over the look-back window and
// posts it to the group. Groups with no entries are skipped. Failures on one
// group do not stop the others.
func (s *Service) BroadcastAll(ctx context.Context) error {
	since := s.now().Add(-s.interval)

	var firstErr error
	for _, group := range s.groups {
		entries, err := s.repo.ListEntriesSince(ctx, repository.ListEntriesSinceOptions{
			GroupID: group.ID,
			Since:   since,
		})
		if err != nil {
			s.l.Errorf(ctx, "report: failed to list entries for group %d: %v", group.ID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to list entries for group %d: %w", group.ID, err)
			}
			continue
		}

		r := FromEntries(entries)
		if r.Empty() {
			s.l.Infof(ctx, "report: no entries for group %d in the last %s", group.ID, s.interval)
			continue
		}

		if err := s.broadcast.Broadcast(ctx, group, r.Present()); err != nil {
			s.l.Errorf(ctx, "report: failed to broadcast to group %d: %v", group.ID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to broadcast to group %d: %w", group.ID, err)
			}
		}
	}
	return firstErr
}
