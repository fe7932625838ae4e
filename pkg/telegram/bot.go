package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	fileURL    string
	username   string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("https://api.telegram.org/bot%s", token),
		fileURL:    fmt.Sprintf("https://api.telegram.org/file/bot%s", token),
		httpClient: &http.Client{},
	}
}

// SetAPIURL overrides the default Telegram API URL for testing purposes.
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = url
	b.fileURL = url + "/file"
}

// SetUsername stores the bot's public username, used to build t.me deep links.
func (b *Bot) SetUsername(username string) { b.username = username }

// Link returns the t.me deep link to the bot's private chat.
func (b *Bot) Link() string {
	return fmt.Sprintf("https://t.me/%s", b.username)
}

// call posts a JSON payload to the given Bot API method and decodes the
// standard {ok, description, result} envelope.
func (b *Bot) call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/%s", b.apiURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !apiResp.OK {
		return nil, fmt.Errorf("telegram %s failed: %s", method, apiResp.Description)
	}
	return apiResp.Result, nil
}

// SetWebhook registers the webhook URL with Telegram.
func (b *Bot) SetWebhook(webhookURL string) error {
	_, err := b.call(context.Background(), "setWebhook", map[string]string{"url": webhookURL})
	return err
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.Send(ctx, SendMessageRequest{ChatID: chatID, Text: text})
}

// Send sends a message with full control over parse mode, thread and keyboard.
func (b *Bot) Send(ctx context.Context, req SendMessageRequest) error {
	_, err := b.call(ctx, "sendMessage", req)
	return err
}

// GetChat fetches chat metadata (used to resolve group display names).
func (b *Bot) GetChat(ctx context.Context, chatID int64) (Chat, error) {
	raw, err := b.call(ctx, "getChat", map[string]int64{"chat_id": chatID})
	if err != nil {
		return Chat{}, err
	}
	var chat Chat
	if err := json.Unmarshal(raw, &chat); err != nil {
		return Chat{}, fmt.Errorf("failed to decode getChat result: %w", err)
	}
	return chat, nil
}

// GetChatMember fetches a user's membership record in a chat.
func (b *Bot) GetChatMember(ctx context.Context, chatID, userID int64) (ChatMember, error) {
	raw, err := b.call(ctx, "getChatMember", map[string]int64{"chat_id": chatID, "user_id": userID})
	if err != nil {
		return ChatMember{}, err
	}
	var member ChatMember
	if err := json.Unmarshal(raw, &member); err != nil {
		return ChatMember{}, fmt.Errorf("failed to decode getChatMember result: %w", err)
	}
	return member, nil
}

// DownloadFile resolves a file_id via getFile and streams the file contents.
// The caller owns the returned ReadCloser.
func (b *Bot) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	raw, err := b.call(ctx, "getFile", map[string]string{"file_id": fileID})
	if err != nil {
		return nil, err
	}
	var file File
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to decode getFile result: %w", err)
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("telegram getFile returned no file_path for %s", fileID)
	}

	url := fmt.Sprintf("%s/%s", b.fileURL, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download telegram file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("telegram file download error %d", resp.StatusCode)
	}
	return resp.Body, nil
}
