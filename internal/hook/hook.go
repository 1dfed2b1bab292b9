// Package hook adapts the priming pipeline to agent hook transports:
// one JSON payload in on stdin, one additional-context payload out on
// stdout.
//
// The hook sits inside the host agent's critical path, so it must
// never break the session. Every failure is absorbed: log to stderr,
// emit nothing, report success. No output means no context is added,
// and the agent proceeds exactly as if the hook were not installed.
package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/contextprime/contextprime/internal/prime"
	"github.com/contextprime/contextprime/internal/source"
)

// Hook event names as the host agent sends them.
const (
	EventUserPromptSubmit = "UserPromptSubmit"
	EventSessionStart     = "SessionStart"
)

// Input is the hook payload. UserPrompt and Prompt are aliases: hosts
// differ on the field name, and either carries the task text.
type Input struct {
	SessionID     string `json:"session_id"`
	HookEventName string `json:"hook_event_name"`
	UserPrompt    string `json:"user_prompt"`
	Prompt        string `json:"prompt"`
	Cwd           string `json:"cwd"`
}

// Output is the additional-context response. The context is additive:
// the host appends it to the conversation and never replaces anything
// with it.
type Output struct {
	HookSpecificOutput HookSpecificOutput `json:"hookSpecificOutput"`
}

// HookSpecificOutput carries the primed document to the host agent.
type HookSpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// Runner primes context for one hook invocation.
type Runner struct {
	engine *prime.Engine
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(engine *prime.Engine, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{engine: engine, logger: logger}
}

// Run handles one hook invocation. A payload with a prompt gets a full
// priming run for that task; a payload without one (session start)
// gets the model-free project briefing. The returned error is only
// ever a failure to write the success response; priming failures are
// absorbed and produce no output.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	payload, err := io.ReadAll(in)
	if err != nil {
		r.logger.Warn("hook: reading input", "error", err)
		return nil
	}

	var input Input
	if err := json.Unmarshal(payload, &input); err != nil {
		r.logger.Warn("hook: unparseable input, continuing unprimed", "error", err)
		return nil
	}

	prompt := input.UserPrompt
	if prompt == "" {
		prompt = input.Prompt
	}
	cwd := input.Cwd
	if cwd == "" {
		if cwd, err = os.Getwd(); err != nil {
			r.logger.Warn("hook: no working directory", "error", err)
			return nil
		}
	}

	var (
		event      = input.HookEventName
		additional string
	)
	if prompt != "" {
		if event == "" {
			event = EventUserPromptSubmit
		}
		primed, err := r.engine.Prime(ctx, source.Task{Description: prompt, ProjectRoot: cwd})
		if err != nil {
			r.logger.Warn("hook: priming failed, continuing unprimed", "error", err)
			return nil
		}
		additional = primed.Document
	} else {
		if event == "" {
			event = EventSessionStart
		}
		briefing, err := r.engine.SessionBriefing(ctx, cwd)
		if err != nil {
			r.logger.Warn("hook: briefing failed, continuing unprimed", "error", err)
			return nil
		}
		additional = briefing
	}

	response := Output{HookSpecificOutput: HookSpecificOutput{
		HookEventName:     event,
		AdditionalContext: additional,
	}}
	if err := json.NewEncoder(out).Encode(response); err != nil {
		return fmt.Errorf("hook: writing response: %w", err)
	}
	return nil
}
