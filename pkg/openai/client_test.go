package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"energy-accounting-bot/pkg/openai"
)

func TestSummarize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "invalid api key"}}`))
			return
		}

		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		messages := req["messages"].([]interface{})
		user := messages[len(messages)-1].(map[string]interface{})
		prose, _ := user["content"].(string)

		if strings.Contains(prose, "cause_500") {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": {"message": "server exploded"}}`))
			return
		}
		if strings.Contains(prose, "cause_empty") {
			w.Write([]byte(`{"choices": []}`))
			return
		}

		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{\"hours\": 3, \"tasks\": [{\"description\": \"fixed the pump\"}]}"}}]}`))
	}))
	defer ts.Close()

	client := openai.NewClient("test-key")
	client.SetAPIURL(ts.URL)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		out, err := client.Summarize(ctx, "fixed the pump for 3 hours")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "fixed the pump") {
			t.Errorf("unexpected response: %q", out)
		}
	})

	t.Run("API Error", func(t *testing.T) {
		_, err := client.Summarize(ctx, "cause_500")
		if err == nil || !strings.Contains(err.Error(), "server exploded") {
			t.Fatalf("expected api error, got: %v", err)
		}
	})

	t.Run("No Choices", func(t *testing.T) {
		_, err := client.Summarize(ctx, "cause_empty")
		if err == nil || !strings.Contains(err.Error(), "no choices") {
			t.Fatalf("expected no-choices error, got: %v", err)
		}
	})

	t.Run("Bad API Key", func(t *testing.T) {
		badClient := openai.NewClient("wrong-key")
		badClient.SetAPIURL(ts.URL)
		_, err := badClient.Summarize(ctx, "anything")
		if err == nil || !strings.Contains(err.Error(), "invalid api key") {
			t.Fatalf("expected auth error, got: %v", err)
		}
	})
}

func TestTranscribe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"message": "not multipart"}}`))
			return
		}
		if r.FormValue("model") == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"message": "model is required"}}`))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"message": "file is required"}}`))
			return
		}
		defer file.Close()
		if header.Filename == "broken.ogg" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"message": "could not decode audio"}}`))
			return
		}
		w.Write([]byte(`{"text": "I fixed the pump today, took three hours."}`))
	}))
	defer ts.Close()

	client := openai.NewClient("test-key")
	client.SetAPIURL(ts.URL)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		text, err := client.Transcribe(ctx, strings.NewReader("OGGDATA"), "voice_message-1.ogg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(text, "fixed the pump") {
			t.Errorf("unexpected transcript: %q", text)
		}
	})

	t.Run("API Error", func(t *testing.T) {
		_, err := client.Transcribe(ctx, strings.NewReader("???"), "broken.ogg")
		if err == nil || !strings.Contains(err.Error(), "could not decode audio") {
			t.Fatalf("expected api error, got: %v", err)
		}
	})
}
