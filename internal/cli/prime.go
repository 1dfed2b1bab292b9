package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/contextprime/contextprime/internal/config"
	"github.com/contextprime/contextprime/internal/llm"
	"github.com/contextprime/contextprime/internal/prime"
	"github.com/contextprime/contextprime/internal/source"
)

// defaultTask keeps taskless priming useful: bare invocations prime
// for general work instead of erroring out.
const defaultTask = "General development work"

var primeCmd = &cobra.Command{
	Use:   "prime",
	Short: "Run the full priming pipeline",
	Long: `Prime gathers project sources, scores them against the task, infers the
outcome hierarchy, and prints the assembled briefing.

Examples:
  contextprime prime --task "fix the auth middleware bug"
  contextprime prime --task "add rate limiting" --platform claude_api --format json
  contextprime prime --mode session   # model-free project briefing`,
	RunE: runPrime,
}

func init() {
	primeCmd.Flags().StringP("task", "t", "", "The task to prime for")
	primeCmd.Flags().String("platform", "", "Target platform: claude_code, claude_api, opencode, gemini_cli, codex_cli")
	primeCmd.Flags().Float64("budget-fraction", 0, "Fraction of the platform window to spend, 0.1-0.4")
	primeCmd.Flags().Float64("threshold", 0, "Relevance threshold override")
	primeCmd.Flags().String("model", "", "Priming model override")
	primeCmd.Flags().StringP("memory", "m", "", "Comma-separated extra memory paths")
	primeCmd.Flags().String("mode", "task", "Priming mode: task or session")
	primeCmd.Flags().String("format", "text", "Output format: text, json, or hook")
}

func runPrime(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" && format != "hook" {
		return fmt.Errorf("invalid format %q: must be text, json, or hook", format)
	}
	mode, _ := cmd.Flags().GetString("mode")
	if mode != "task" && mode != "session" {
		return fmt.Errorf("invalid mode %q: must be task or session", mode)
	}

	root, cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	taskText, _ := cmd.Flags().GetString("task")
	sessionOnly := mode == "session" && taskText == ""

	// Session briefings never call the model, so they work without a
	// configured provider.
	var caller llm.Caller
	if sessionOnly {
		caller = llm.Unavailable(fmt.Errorf("session briefing made a model call"))
	} else {
		if caller, err = llm.ForProvider(cfg.Model.Provider, cfg.Model.Name, cfg.Model.BaseURL); err != nil {
			return err
		}
	}
	engine := prime.New(cfg, caller, newLogger())

	if sessionOnly {
		briefing, err := engine.SessionBriefing(cmd.Context(), root)
		if err != nil {
			return err
		}
		if format == "json" {
			return printJSON(map[string]string{"document": briefing})
		}
		fmt.Println(briefing)
		return nil
	}

	if taskText == "" {
		taskText = defaultTask
	}
	platform, _ := cmd.Flags().GetString("platform")
	fraction, _ := cmd.Flags().GetFloat64("budget-fraction")

	primed, err := engine.Prime(cmd.Context(), source.Task{
		Description:    taskText,
		ProjectRoot:    root,
		Platform:       platform,
		BudgetFraction: fraction,
	})
	if err != nil {
		return err
	}

	if format == "json" {
		return printJSON(primeView(primed))
	}
	// text and hook both print the bare document
	fmt.Println(primed.Document)
	return nil
}

// applyOverrides folds per-invocation flags into the loaded config.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("model") {
		cfg.Model.Name, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Budget.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if memory, _ := cmd.Flags().GetString("memory"); memory != "" {
		cfg.Gather.MemoryPaths = append(cfg.Gather.MemoryPaths, strings.Split(memory, ",")...)
	}
}

// primeJSON is the machine-readable rendering: the document plus the
// structured pieces a wrapper script would otherwise re-parse out.
type primeJSON struct {
	RequestID   string                  `json:"request_id"`
	Document    string                  `json:"document"`
	Hierarchy   source.OutcomeHierarchy `json:"hierarchy"`
	Stats       source.Stats            `json:"stats"`
	SourcesUsed []string                `json:"sources_used"`
}

func primeView(p *source.PrimedContext) primeJSON {
	used := make([]string, len(p.Sources))
	for i, s := range p.Sources {
		used[i] = s.Name
	}
	return primeJSON{
		RequestID:   p.RequestID,
		Document:    p.Document,
		Hierarchy:   p.Hierarchy,
		Stats:       p.Stats,
		SourcesUsed: used,
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
