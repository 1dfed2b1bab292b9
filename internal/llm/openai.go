package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const openaiDefaultBaseURL = "https://api.openai.com/v1"

// OpenAICompatible implements Caller against any chat-completions
// endpoint: OpenAI itself, OpenRouter, or a local Ollama server. The
// base URL selects the provider; an empty API key is valid for local
// endpoints that don't authenticate.
type OpenAICompatible struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAICompatible creates a caller for an OpenAI-style API. An
// empty baseURL targets OpenAI.
func NewOpenAICompatible(baseURL, apiKey, model string) *OpenAICompatible {
	if baseURL == "" {
		baseURL = openaiDefaultBaseURL
	}
	return &OpenAICompatible{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// --- chat-completions wire types ---

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends history plus the prompt as a user turn and returns the
// first choice's content.
func (o *OpenAICompatible) Complete(ctx context.Context, prompt string, history []Message) (string, error) {
	wire := chatRequest{
		Model:     o.model,
		MaxTokens: defaultMaxTokens,
	}
	for _, m := range history {
		wire.Messages = append(wire.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	wire.Messages = append(wire.Messages, chatMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("llm/openai: marshal request: %w", err)
	}

	header := http.Header{}
	if o.apiKey != "" {
		header.Set("Authorization", "Bearer "+o.apiKey)
	}

	body, err := postJSON(ctx, o.client, o.baseURL+"/chat/completions", payload, header, "llm/openai")
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("llm/openai: decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm/openai: empty response choices")
	}
	return resp.Choices[0].Message.Content, nil
}
