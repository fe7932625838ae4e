package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"energy-accounting-bot/internal/entry/repository"
	"energy-accounting-bot/internal/model"
	"energy-accounting-bot/internal/report"
	"energy-accounting-bot/pkg/log"
)

type mockRepo struct {
	entries map[int64][]model.Entry
	failFor map[int64]bool
	queries []repository.ListEntriesSinceOptions
}

func (m *mockRepo) CreateEntry(ctx context.Context, opt repository.CreateEntryOptions) (model.Entry, error) {
	return model.Entry{}, errors.New("not used")
}

func (m *mockRepo) ListEntriesSince(ctx context.Context, opt repository.ListEntriesSinceOptions) ([]model.Entry, error) {
	m.queries = append(m.queries, opt)
	if m.failFor[opt.GroupID] {
		return nil, errors.New("db error")
	}
	return m.entries[opt.GroupID], nil
}

type mockBroadcaster struct {
	failFor map[int64]bool
	sent    map[int64]string
}

func (m *mockBroadcaster) Broadcast(ctx context.Context, group model.Group, text string) error {
	if m.failFor[group.ID] {
		return errors.New("send error")
	}
	if m.sent == nil {
		m.sent = map[int64]string{}
	}
	m.sent[group.ID] = text
	return nil
}

func TestBroadcastAll(t *testing.T) {
	ctx := context.Background()
	groups := []model.Group{{ID: -100, Label: "Engineering"}, {ID: -200, Label: "Logistics"}}
	now := time.Date(2025, 3, 16, 18, 0, 0, 0, time.UTC)

	newService := func(repo *mockRepo, broadcast *mockBroadcaster) *report.Service {
		svc := report.NewService(log.NewNop(), repo, broadcast, groups, 7*24*time.Hour)
		svc.SetClock(func() time.Time { return now })
		return svc
	}

	entriesFor := func(name string) []model.Entry {
		return []model.Entry{{OwnerID: 1, OwnerDisplayName: name, Hours: 2, Tasks: []model.Task{{Description: "work"}}}}
	}

	t.Run("Reports each group over the interval", func(t *testing.T) {
		repo := &mockRepo{entries: map[int64][]model.Entry{
			-100: entriesFor("@alice"),
			-200: entriesFor("@bob"),
		}}
		broadcast := &mockBroadcaster{}

		if err := newService(repo, broadcast).BroadcastAll(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(broadcast.sent) != 2 {
			t.Errorf("expected 2 broadcasts, got %d", len(broadcast.sent))
		}
		for _, q := range repo.queries {
			if want := now.Add(-7 * 24 * time.Hour); !q.Since.Equal(want) {
				t.Errorf("expected since %v, got %v", want, q.Since)
			}
		}
	})

	t.Run("Groups with no entries are skipped", func(t *testing.T) {
		repo := &mockRepo{entries: map[int64][]model.Entry{-100: entriesFor("@alice")}}
		broadcast := &mockBroadcaster{}

		if err := newService(repo, broadcast).BroadcastAll(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := broadcast.sent[-200]; ok {
			t.Errorf("empty group should not be broadcast to")
		}
		if _, ok := broadcast.sent[-100]; !ok {
			t.Errorf("group with entries should be broadcast to")
		}
	})

	t.Run("One failing group does not stop the rest", func(t *testing.T) {
		repo := &mockRepo{
			entries: map[int64][]model.Entry{-200: entriesFor("@bob")},
			failFor: map[int64]bool{-100: true},
		}
		broadcast := &mockBroadcaster{}

		err := newService(repo, broadcast).BroadcastAll(ctx)
		if err == nil {
			t.Errorf("expected the first failure to surface")
		}
		if _, ok := broadcast.sent[-200]; !ok {
			t.Errorf("healthy group should still receive its report")
		}
	})

	t.Run("Broadcast failure surfaces but continues", func(t *testing.T) {
		repo := &mockRepo{entries: map[int64][]model.Entry{
			-100: entriesFor("@alice"),
			-200: entriesFor("@bob"),
		}}
		broadcast := &mockBroadcaster{failFor: map[int64]bool{-100: true}}

		err := newService(repo, broadcast).BroadcastAll(ctx)
		if err == nil {
			t.Errorf("expected broadcast failure to surface")
		}
		if _, ok := broadcast.sent[-200]; !ok {
			t.Errorf("second group should still receive its report")
		}
	})
}
