package llm

import (
	"context"
	"fmt"
	"os"
)

// Provider identifiers accepted in configuration.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// ForProvider builds the Caller for a configured provider. API keys
// come exclusively from the environment: ANTHROPIC_API_KEY for
// anthropic, OPENAI_API_KEY for openai-compatible endpoints. A custom
// baseURL may run without a key (local Ollama does not authenticate).
func ForProvider(provider, model, baseURL string) (Caller, error) {
	switch provider {
	case ProviderAnthropic, "":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return NewAnthropic(key, model), nil
	case ProviderOpenAI:
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" && baseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return NewOpenAICompatible(baseURL, key, model), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q: must be %s or %s", provider, ProviderAnthropic, ProviderOpenAI)
	}
}

// Unavailable returns a Caller whose every call reports err. Surfaces
// with model-free paths (session briefings, bare gathering) use it
// when no provider is configured, so only the stages that genuinely
// need a model fail.
func Unavailable(err error) Caller {
	return unavailable{err: err}
}

type unavailable struct{ err error }

func (u unavailable) Complete(ctx context.Context, prompt string, history []Message) (string, error) {
	return "", u.err
}
