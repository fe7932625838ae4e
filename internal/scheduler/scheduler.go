// Package scheduler runs the bot's recurring jobs: the daily logging
// reminder and the weekly report broadcast.
package scheduler

import (
	"context"
	"time"

	"energy-accounting-bot/pkg/log"
)

// Job is a recurring unit of work.
type Job func(ctx context.Context) error

// TimeOfDay is a wall-clock moment in the scheduler's timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Scheduler fires the reminder daily and the report weekly at configured
// local times.
type Scheduler struct {
	l             log.Logger
	loc           *time.Location
	remindAt      TimeOfDay
	reportAt      TimeOfDay
	reportWeekday time.Weekday
	remind        Job
	report        Job
	now           func() time.Time
}

// New creates a scheduler. Either job may be nil to disable it.
func New(l log.Logger, loc *time.Location, remindAt, reportAt TimeOfDay, reportWeekday time.Weekday, remind, report Job) *Scheduler {
	return &Scheduler{
		l:             l,
		loc:           loc,
		remindAt:      remindAt,
		reportAt:      reportAt,
		reportWeekday: reportWeekday,
		remind:        remind,
		report:        report,
		now:           time.Now,
	}
}

// SetClock overrides the timestamp source. Tests only.
func (s *Scheduler) SetClock(now func() time.Time) { s.now = now }

// Run blocks until ctx is done, firing jobs at their scheduled moments.
func (s *Scheduler) Run(ctx context.Context) {
	if s.remind != nil {
		go s.loop(ctx, "reminder", s.remind, s.nextRemind)
	}
	if s.report != nil {
		go s.loop(ctx, "report", s.report, s.nextReport)
	}
	<-ctx.Done()
}

func (s *Scheduler) loop(ctx context.Context, name string, job Job, next func(time.Time) time.Time) {
	for {
		fireAt := next(s.now())
		s.l.Infof(ctx, "scheduler: next %s at %s", name, fireAt.Format(time.RFC3339))

		timer := time.NewTimer(fireAt.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := job(ctx); err != nil {
			s.l.Errorf(ctx, "scheduler: %s job failed: %v", name, err)
		}
	}
}

// nextRemind returns the next daily reminder moment strictly after now.
func (s *Scheduler) nextRemind(now time.Time) time.Time {
	now = now.In(s.loc)
	fireAt := time.Date(now.Year(), now.Month(), now.Day(), s.remindAt.Hour, s.remindAt.Minute, 0, 0, s.loc)
	if !fireAt.After(now) {
		fireAt = fireAt.AddDate(0, 0, 1)
	}
	return fireAt
}

// nextReport returns the next weekly report moment strictly after now, on
// the configured weekday.
func (s *Scheduler) nextReport(now time.Time) time.Time {
	now = now.In(s.loc)
	daysAhead := (int(s.reportWeekday) - int(now.Weekday()) + 7) % 7
	fireAt := time.Date(now.Year(), now.Month(), now.Day(), s.reportAt.Hour, s.reportAt.Minute, 0, 0, s.loc).
		AddDate(0, 0, daysAhead)
	if !fireAt.After(now) {
		fireAt = fireAt.AddDate(0, 0, 7)
	}
	return fireAt
}
