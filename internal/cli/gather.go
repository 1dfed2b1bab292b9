package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contextprime/contextprime/internal/gather"
	"github.com/contextprime/contextprime/internal/prime"
	"github.com/contextprime/contextprime/internal/source"
)

// gatherPreviewBytes bounds each source preview in JSON output.
const gatherPreviewBytes = 200

var gatherCmd = &cobra.Command{
	Use:   "gather",
	Short: "Gather sources only (no scoring or assembly)",
	Long: `Gather runs the source discovery stage alone and lists what priming
would work from. No model calls are made.

Examples:
  contextprime gather
  contextprime gather --task "fix the auth bug" --format json`,
	RunE: runGather,
}

func init() {
	gatherCmd.Flags().StringP("task", "t", "", "Optional task text; its keywords select relevant code files")
	gatherCmd.Flags().StringP("memory", "m", "", "Comma-separated extra memory paths")
	gatherCmd.Flags().String("format", "text", "Output format: text or json")
}

func runGather(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", format)
	}

	root, cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	taskText, _ := cmd.Flags().GetString("task")
	gatherer := gather.New(prime.GatherOptions(cfg), newLogger())
	sources, err := gatherer.Gather(cmd.Context(), source.Task{
		Description: taskText,
		ProjectRoot: root,
	})
	if err != nil {
		return err
	}

	if format == "json" {
		return printJSON(gatherView(root, sources))
	}

	fmt.Printf("Gathered %d sources (~%d tokens)\n\n", len(sources), gather.TotalTokens(sources))
	for _, s := range sources {
		fmt.Printf("  [%s] %s (~%d tokens)\n", s.Category, s.Name, s.TokenEstimate)
	}
	return nil
}

// gatherJSON mirrors the inspection shape: per-source category, name,
// token estimate, and a short preview.
type gatherJSON struct {
	ProjectDir   string         `json:"project_dir"`
	TotalSources int            `json:"total_sources"`
	TotalTokens  int            `json:"total_tokens"`
	Sources      []gatherSource `json:"sources"`
}

type gatherSource struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Tokens   int    `json:"tokens"`
	Preview  string `json:"preview"`
}

func gatherView(root string, sources []source.Source) gatherJSON {
	out := gatherJSON{
		ProjectDir:   root,
		TotalSources: len(sources),
		TotalTokens:  gather.TotalTokens(sources),
		Sources:      make([]gatherSource, len(sources)),
	}
	for i, s := range sources {
		preview := s.Content
		if len(preview) > gatherPreviewBytes {
			preview = preview[:gatherPreviewBytes]
		}
		out.Sources[i] = gatherSource{
			Category: string(s.Category),
			Name:     s.Name,
			Tokens:   s.TokenEstimate,
			Preview:  preview,
		}
	}
	return out
}
