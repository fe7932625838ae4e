package telegram_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"energy-accounting-bot/internal/entry/delivery/telegram"
	"energy-accounting-bot/internal/model"
	"energy-accounting-bot/pkg/log"
	pkgTelegram "energy-accounting-bot/pkg/telegram"
)

func TestMembershipAccessibleGroups(t *testing.T) {
	// Per-group membership status; group -400 errors out entirely.
	statuses := map[int64]string{
		-100: "member",
		-200: "left",
		-300: "administrator",
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getChatMember") {
			var req map[string]int64
			json.NewDecoder(r.Body).Decode(&req)
			status, ok := statuses[req["chat_id"]]
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
				return
			}
			fmt.Fprintf(w, `{"ok": true, "result": {"status": %q}}`, status)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/getChat") {
			var req map[string]int64
			json.NewDecoder(r.Body).Decode(&req)
			fmt.Fprintf(w, `{"ok": true, "result": {"id": %d, "type": "supergroup", "title": "Resolved Title"}}`, req["chat_id"])
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	bot := pkgTelegram.NewBot("test-token")
	bot.SetAPIURL(ts.URL)

	groups := []model.Group{
		{ID: -100, Label: "Engineering"},
		{ID: -200, Label: "Logistics"},
		{ID: -300}, // no label configured, resolved from the chat title
		{ID: -400, Label: "Broken"},
	}
	membership := telegram.NewMembership(log.NewNop(), bot, groups)

	accessible, err := membership.AccessibleGroups(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accessible) != 2 {
		t.Fatalf("expected 2 accessible groups, got %d: %+v", len(accessible), accessible)
	}
	if accessible[0].Label != "Engineering" {
		t.Errorf("expected Engineering first, got %+v", accessible[0])
	}
	if accessible[1].ID != -300 || accessible[1].Label != "Resolved Title" {
		t.Errorf("expected unlabeled group resolved from chat title, got %+v", accessible[1])
	}
}

func TestBroadcaster(t *testing.T) {
	var payload map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/sendMessage") {
			json.NewDecoder(r.Body).Decode(&payload)
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	bot := pkgTelegram.NewBot("test-token")
	bot.SetAPIURL(ts.URL)

	broadcaster := telegram.NewBroadcaster(bot)
	group := model.Group{ID: -100, ThreadID: 42, Label: "Engineering"}
	if err := broadcaster.Broadcast(context.Background(), group, "*Contributor:* @alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload["chat_id"].(float64) != -100 {
		t.Errorf("expected chat_id -100, got %v", payload["chat_id"])
	}
	if payload["message_thread_id"].(float64) != 42 {
		t.Errorf("expected thread 42, got %v", payload["message_thread_id"])
	}
	if payload["parse_mode"] != "Markdown" {
		t.Errorf("expected Markdown, got %v", payload["parse_mode"])
	}
}

func TestReminderSendAll(t *testing.T) {
	var sent []map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/sendMessage") {
			var payload map[string]interface{}
			json.NewDecoder(r.Body).Decode(&payload)
			sent = append(sent, payload)
			if payload["chat_id"].(float64) == -200 {
				w.Write([]byte(`{"ok": false, "description": "kicked from group"}`))
				return
			}
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	bot := pkgTelegram.NewBot("test-token")
	bot.SetAPIURL(ts.URL)
	bot.SetUsername("energy_bot")

	groups := []model.Group{{ID: -100}, {ID: -200}, {ID: -300}}
	reminder := telegram.NewReminder(log.NewNop(), bot, groups)

	err := reminder.SendAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "kicked from group") {
		t.Errorf("expected the failed group's error to surface, got %v", err)
	}

	// One failing group does not stop the others.
	if len(sent) != 3 {
		t.Fatalf("expected all 3 groups attempted, got %d", len(sent))
	}
	text, _ := sent[0]["text"].(string)
	if !strings.Contains(text, "friendly reminder") {
		t.Errorf("unexpected reminder text: %q", text)
	}
	markup, ok := sent[0]["reply_markup"].(map[string]interface{})
	if !ok || markup["inline_keyboard"] == nil {
		t.Errorf("expected deep-link button, got %v", sent[0]["reply_markup"])
	}
}
