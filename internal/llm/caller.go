// Package llm provides the model capability the pipeline stages call:
// a minimal text-in/text-out completion interface with hand-rolled HTTP
// clients for the Anthropic Messages API and for OpenAI-compatible chat
// endpoints (OpenAI, OpenRouter, local Ollama).
//
// The pipeline treats the model as opaque. It hands over a prompt and
// receives raw text; all structured parsing and fail-closed handling of
// that text belongs to the stage that made the call, never to this
// package.
package llm

import "context"

// Message is one bounded history entry for a model call. Role is
// "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Caller is the pluggable model capability. Complete sends the prompt
// (preceded by any history) and returns the model's raw text response.
// Implementations must honor ctx cancellation and deadlines.
type Caller interface {
	Complete(ctx context.Context, prompt string, history []Message) (string, error)
}

// defaultMaxTokens bounds completion length for priming calls. Scoring,
// hierarchy, and summary responses are all short structured text.
const defaultMaxTokens = 4096
