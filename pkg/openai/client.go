package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

const (
	defaultChatModel       = "gpt-3.5-turbo"
	defaultTranscribeModel = "whisper-1"
)

// Client is the OpenAI API client, covering the two endpoints the bot needs:
// chat completions (extraction) and audio transcriptions (voice input).
type Client struct {
	apiKey          string
	apiURL          string
	chatModel       string
	transcribeModel string
	httpClient      *http.Client
}

// NewClient creates a new OpenAI API client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:          apiKey,
		apiURL:          "https://api.openai.com/v1",
		chatModel:       defaultChatModel,
		transcribeModel: defaultTranscribeModel,
		httpClient:      &http.Client{},
	}
}

// SetAPIURL overrides the default API URL for testing purposes.
func (c *Client) SetAPIURL(url string) { c.apiURL = url }

// SetChatModel overrides the chat completion model.
func (c *Client) SetChatModel(model string) {
	if model != "" {
		c.chatModel = model
	}
}

// Summarize sends the narrated work log through the fixed extraction prompt
// and returns the model's raw text response. Callers are responsible for
// parsing; the response is untrusted.
func (c *Client) Summarize(ctx context.Context, prose string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []ChatMessage{
			{Role: "system", Content: SummarizeSystemPrompt},
			{Role: "user", Content: prose},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat completions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError("chat completions", resp)
	}

	var result ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// Transcribe uploads an audio stream to the transcriptions endpoint and
// returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart file field: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to buffer audio payload: %w", err)
	}
	if err := writer.WriteField("model", c.transcribeModel); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call transcriptions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError("transcriptions", resp)
	}

	var result TranscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return result.Text, nil
}

func decodeAPIError(endpoint string, resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var envelope apiError
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("openai %s error %d: %s", endpoint, resp.StatusCode, envelope.Error.Message)
	}
	return fmt.Errorf("openai %s error %d: %s", endpoint, resp.StatusCode, string(raw))
}
