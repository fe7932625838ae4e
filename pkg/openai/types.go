package openai

// ChatMessage is a single message in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the request body for the chat completions API.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatCompletionResponse is the response body from the chat completions API.
type ChatCompletionResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice is a single completion candidate.
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// TranscriptionResponse is the response body from the audio transcriptions API.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// apiError is the error envelope the API returns on non-2xx responses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
