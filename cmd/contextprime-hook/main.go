// contextprime-hook bridges agent hook events to the priming pipeline.
// It reads one hook payload from stdin and prints the primed context
// as additional-context JSON on stdout.
//
// The hook runs inside the host agent's prompt path, so it never
// fails: any problem is logged to stderr and the hook exits 0 with no
// output, leaving the session unprimed but intact.
//
// Usage (Claude Code settings):
//
//	{
//	  "hooks": {
//	    "UserPromptSubmit": [{"hooks": [{"type": "command", "command": "contextprime-hook"}]}],
//	    "SessionStart":     [{"hooks": [{"type": "command", "command": "contextprime-hook"}]}]
//	  }
//	}
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/contextprime/contextprime/internal/config"
	"github.com/contextprime/contextprime/internal/hook"
	"github.com/contextprime/contextprime/internal/llm"
	"github.com/contextprime/contextprime/internal/prime"
)

// runTimeout bounds one hook invocation end to end. The host agent is
// waiting on this process; better unprimed than hung.
const runTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load("")
	if err != nil {
		logger.Warn("contextprime-hook: config load failed, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	// Without a model the hook can still serve session briefings,
	// which never call one. Per-task priming will fail inside the
	// runner and be absorbed there.
	caller, err := llm.ForProvider(cfg.Model.Provider, cfg.Model.Name, cfg.Model.BaseURL)
	if err != nil {
		logger.Warn("contextprime-hook: model unavailable", "error", err)
		caller = llm.Unavailable(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	runner := hook.NewRunner(prime.New(cfg, caller, logger), logger)
	if err := runner.Run(ctx, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "contextprime-hook: %v\n", err)
	}
	os.Exit(0)
}
