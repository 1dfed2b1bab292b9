package config

import (
	"os"

	"github.com/contextprime/contextprime/internal/source"
)

// DefaultPlatform is used when neither config nor request names one.
const DefaultPlatform = "claude_code"

// DefaultConfig returns the built-in configuration. Platform context
// sizes are usable coding context, not raw window size — claude_code
// reserves a large slice of its window for tools and MCP schemas.
func DefaultConfig() *Config {
	return &Config{
		Version:  "1",
		Platform: DefaultPlatform,
		Model: ModelConfig{
			Provider: "anthropic",
			Name:     "claude-sonnet-4-6",
		},
		Budget: BudgetConfig{
			Fraction:  source.DefaultBudgetFraction,
			Threshold: 0.5,
		},
		Gather: GatherConfig{
			MaxCodeFiles: 50,
			MaxDepth:     4,
			CommitCount:  20,
		},
		Timeouts: TimeoutConfig{
			ModelCallSeconds:     8,
			GatherCommandSeconds: 10,
		},
		Platforms: map[string]PlatformConfig{
			"claude_code": {
				ContextTokens: 120000,
				Tools:         []string{"Read", "Write", "Edit", "Bash", "Grep", "Glob", "WebFetch"},
			},
			"claude_api": {
				ContextTokens: 200000,
			},
			"opencode": {
				ContextTokens: 128000,
				Tools:         []string{"read", "write", "edit", "bash", "grep", "glob"},
			},
			"gemini_cli": {
				ContextTokens: 1000000,
				Tools:         []string{"read_file", "write_file", "replace", "run_shell_command", "glob", "search_file_content"},
			},
			"codex_cli": {
				ContextTokens: 200000,
				Tools:         []string{"shell", "apply_patch"},
			},
			"default": {
				ContextTokens: 128000,
			},
		},
	}
}

// WriteDefault writes a commented default configuration file.
func WriteDefault(path string) error {
	content := `# Context Prime Configuration
version: "1"

# Default target platform (decides the context budget and tool list).
platform: claude_code

# Priming model. API keys come from the environment:
#   ANTHROPIC_API_KEY for provider anthropic
#   OPENAI_API_KEY for provider openai
model:
  provider: anthropic
  name: claude-sonnet-4-6
  # base_url: https://openrouter.ai/api/v1   # OpenAI-compatible override

# Budget: fraction of the platform context the briefing may use
# (allowed range 0.1-0.4), and the minimum relevance score a source
# needs to be included.
budget:
  fraction: 0.25
  threshold: 0.5

# Gatherer bounds.
gather:
  max_code_files: 50
  max_depth: 4
  commit_count: 20
  # memory_paths:
  #   - ~/notes/lessons.md
  # external_paths:
  #   - docs/architecture.md
  # memory_db: ~/.contextprime/memory.db

# Per-operation timeouts in seconds.
timeouts:
  model_call_seconds: 8
  gather_command_seconds: 10

# Platform budget table: usable context tokens and available tools.
# Override or extend as platforms change.
platforms:
  claude_code:
    context_tokens: 120000
    tools: [Read, Write, Edit, Bash, Grep, Glob, WebFetch]
  claude_api:
    context_tokens: 200000
  opencode:
    context_tokens: 128000
    tools: [read, write, edit, bash, grep, glob]
  gemini_cli:
    context_tokens: 1000000
    tools: [read_file, write_file, replace, run_shell_command, glob, search_file_content]
  codex_cli:
    context_tokens: 200000
    tools: [shell, apply_patch]
  default:
    context_tokens: 128000
`
	return os.WriteFile(path, []byte(content), 0644)
}
