package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion        = "2023-06-01"
)

// Anthropic implements Caller against the Anthropic Messages API.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropic creates an Anthropic caller. The model is the priming
// model identifier (a fast model keeps priming overhead low; the main
// agent's model is unrelated to this client).
func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicDefaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// --- Anthropic wire types ---

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Complete sends history plus the prompt as a user turn and returns the
// concatenated text of the response.
func (a *Anthropic) Complete(ctx context.Context, prompt string, history []Message) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("llm/anthropic: api key not set")
	}

	wire := anthropicRequest{
		Model:     a.model,
		MaxTokens: defaultMaxTokens,
	}
	for _, m := range history {
		wire.Messages = append(wire.Messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}
	wire.Messages = append(wire.Messages, anthropicMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("llm/anthropic: marshal request: %w", err)
	}

	header := http.Header{}
	header.Set("x-api-key", a.apiKey)
	header.Set("anthropic-version", anthropicVersion)

	body, err := postJSON(ctx, a.client, a.baseURL, payload, header, "llm/anthropic")
	if err != nil {
		return "", err
	}

	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("llm/anthropic: decode response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("llm/anthropic: empty response content")
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}
