// Package config loads and validates the context priming configuration:
// model provider selection, budget fractions and thresholds, gather
// tunables, per-call timeouts, and the platform budget table that maps
// platform identifiers to usable context sizes.
//
// Configuration merges three layers: built-in defaults, the global file
// (~/.contextprime/config.yaml), and the project file
// (<project>/.contextprime/config.yaml), each overriding the previous.
// A handful of CONTEXTPRIME_* environment variables override files; API
// keys come exclusively from the environment and never from files.
package config

// Config is the full effective configuration.
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Platform is the default target platform when a request doesn't
	// name one.
	Platform string `yaml:"platform" mapstructure:"platform"`

	Model     ModelConfig               `yaml:"model" mapstructure:"model"`
	Budget    BudgetConfig              `yaml:"budget" mapstructure:"budget"`
	Gather    GatherConfig              `yaml:"gather" mapstructure:"gather"`
	Timeouts  TimeoutConfig             `yaml:"timeouts" mapstructure:"timeouts"`
	Platforms map[string]PlatformConfig `yaml:"platforms" mapstructure:"platforms"`
}

// ModelConfig selects the priming model. API keys are read from the
// environment (ANTHROPIC_API_KEY / OPENAI_API_KEY), never persisted.
type ModelConfig struct {
	// Provider is "anthropic" or "openai" (any OpenAI-compatible API).
	Provider string `yaml:"provider" mapstructure:"provider"`
	Name     string `yaml:"name" mapstructure:"name"`
	// BaseURL overrides the endpoint for OpenAI-compatible providers
	// (OpenRouter, local Ollama). Ignored for anthropic.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// BudgetConfig controls how much of the platform window priming may
// consume and how relevant a source must be to survive filtering.
type BudgetConfig struct {
	Fraction  float64 `yaml:"fraction" mapstructure:"fraction"`
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

// GatherConfig bounds the source gatherer.
type GatherConfig struct {
	MaxCodeFiles int `yaml:"max_code_files" mapstructure:"max_code_files"`
	MaxDepth     int `yaml:"max_depth" mapstructure:"max_depth"`
	CommitCount  int `yaml:"commit_count" mapstructure:"commit_count"`
	// MemoryPaths lists extra memory files or directories beyond the
	// default locations.
	MemoryPaths []string `yaml:"memory_paths" mapstructure:"memory_paths"`
	// ExternalPaths lists local files to include as external sources.
	// Empty by default; the gatherer performs no network I/O.
	ExternalPaths []string `yaml:"external_paths" mapstructure:"external_paths"`
	// MemoryDB overrides the observations database path. Empty means
	// look in <project>/.contextprime/memory.db, then the global dir.
	MemoryDB string `yaml:"memory_db" mapstructure:"memory_db"`
}

// TimeoutConfig sets per-operation deadlines in seconds.
type TimeoutConfig struct {
	ModelCallSeconds     int `yaml:"model_call_seconds" mapstructure:"model_call_seconds"`
	GatherCommandSeconds int `yaml:"gather_command_seconds" mapstructure:"gather_command_seconds"`
}

// PlatformConfig describes one target platform: how many tokens of
// usable context it offers and which tools the agent has there (the
// capabilities reminder is rendered from this list).
type PlatformConfig struct {
	ContextTokens int      `yaml:"context_tokens" mapstructure:"context_tokens"`
	Tools         []string `yaml:"tools" mapstructure:"tools"`
}
