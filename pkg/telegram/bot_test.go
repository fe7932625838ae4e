package telegram_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"energy-accounting-bot/pkg/telegram"
)

func TestBot(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if strings.HasSuffix(path, "/setWebhook") {
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			if req["url"] == "cause_error" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"ok": false, "description": "invalid url"}`))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"ok": true, "description": "webhook set"}`))
			return
		}

		if strings.HasSuffix(path, "/sendMessage") {
			var req map[string]interface{}
			json.NewDecoder(r.Body).Decode(&req)
			text, _ := req["text"].(string)

			if text == "cause_error" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"ok": false, "description": "invalid text"}`))
				return
			}
			if text == "check_thread" {
				if req["message_thread_id"].(float64) != 42 {
					w.Write([]byte(`{"ok": false, "description": "missing thread"}`))
					return
				}
			}
			if text == "check_keyboard" {
				markup, ok := req["reply_markup"].(map[string]interface{})
				if !ok || markup["keyboard"] == nil {
					w.Write([]byte(`{"ok": false, "description": "missing keyboard"}`))
					return
				}
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"ok": true}`))
			return
		}

		if strings.HasSuffix(path, "/getChat") {
			w.Write([]byte(`{"ok": true, "result": {"id": -100, "type": "supergroup", "title": "Engineering"}}`))
			return
		}

		if strings.HasSuffix(path, "/getChatMember") {
			var req map[string]int64
			json.NewDecoder(r.Body).Decode(&req)
			if req["user_id"] == 404 {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"ok": false, "description": "user not found"}`))
				return
			}
			w.Write([]byte(`{"ok": true, "result": {"status": "member", "user": {"id": 7, "first_name": "Alice"}}}`))
			return
		}

		if strings.HasSuffix(path, "/getFile") {
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			if req["file_id"] == "no_path" {
				w.Write([]byte(`{"ok": true, "result": {"file_id": "no_path"}}`))
				return
			}
			w.Write([]byte(`{"ok": true, "result": {"file_id": "voice-1", "file_path": "voice/file_1.oga"}}`))
			return
		}

		if strings.Contains(path, "/file/") {
			w.Write([]byte("OGGDATA"))
			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	bot := telegram.NewBot("test-token")
	bot.SetAPIURL(ts.URL) // Route commands to test server instead of api.telegram.org
	ctx := context.Background()

	t.Run("SetWebhook Success", func(t *testing.T) {
		if err := bot.SetWebhook("https://example.com/webhook"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("SetWebhook API Failed", func(t *testing.T) {
		err := bot.SetWebhook("cause_error")
		if err == nil || !strings.Contains(err.Error(), "invalid url") {
			t.Fatalf("expected api failure error, got: %v", err)
		}
	})

	t.Run("SendMessage Success", func(t *testing.T) {
		if err := bot.SendMessage(ctx, 12345, "Hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("SendMessage API Failed", func(t *testing.T) {
		err := bot.SendMessage(ctx, 12345, "cause_error")
		if err == nil || !strings.Contains(err.Error(), "invalid text") {
			t.Fatalf("expected api failure error, got: %v", err)
		}
	})

	t.Run("Send carries thread and parse mode", func(t *testing.T) {
		err := bot.Send(ctx, telegram.SendMessageRequest{
			ChatID:          -100,
			MessageThreadID: 42,
			Text:            "check_thread",
			ParseMode:       "Markdown",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Send carries reply keyboard", func(t *testing.T) {
		err := bot.Send(ctx, telegram.SendMessageRequest{
			ChatID: 12345,
			Text:   "check_keyboard",
			ReplyMarkup: telegram.ReplyKeyboardMarkup{
				Keyboard:        [][]string{{"Yes"}, {"No"}},
				OneTimeKeyboard: true,
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("GetChat Success", func(t *testing.T) {
		chat, err := bot.GetChat(ctx, -100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if chat.Title != "Engineering" {
			t.Errorf("expected chat title, got %+v", chat)
		}
	})

	t.Run("GetChatMember Success", func(t *testing.T) {
		member, err := bot.GetChatMember(ctx, -100, 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if member.Status != "member" {
			t.Errorf("expected member status, got %+v", member)
		}
	})

	t.Run("GetChatMember API Failed", func(t *testing.T) {
		_, err := bot.GetChatMember(ctx, -100, 404)
		if err == nil || !strings.Contains(err.Error(), "user not found") {
			t.Fatalf("expected api failure error, got: %v", err)
		}
	})

	t.Run("DownloadFile Success", func(t *testing.T) {
		body, err := bot.DownloadFile(ctx, "voice-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer body.Close()
		data, _ := io.ReadAll(body)
		if string(data) != "OGGDATA" {
			t.Errorf("unexpected file contents: %q", data)
		}
	})

	t.Run("DownloadFile Missing Path", func(t *testing.T) {
		_, err := bot.DownloadFile(ctx, "no_path")
		if err == nil || !strings.Contains(err.Error(), "no file_path") {
			t.Fatalf("expected missing path error, got: %v", err)
		}
	})

	t.Run("Invalid API URL logic", func(t *testing.T) {
		badBot := telegram.NewBot("test")
		badBot.SetAPIURL("http://invalid-url.local:1234")
		if err := badBot.SendMessage(ctx, 12345, "fail"); err == nil {
			t.Errorf("expected network failure on invalid domain")
		}
	})
}

func TestUserDisplayName(t *testing.T) {
	cases := []struct {
		name string
		user *telegram.User
		want string
	}{
		{"username wins", &telegram.User{FirstName: "Alice", Username: "alice_w"}, "@alice_w"},
		{"full name", &telegram.User{FirstName: "Alice", LastName: "Wong"}, "Alice Wong"},
		{"first name only", &telegram.User{FirstName: "Alice"}, "Alice"},
		{"nil user", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
