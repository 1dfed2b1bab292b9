package cli

import (
	"context"
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/contextprime/contextprime/internal/server"
	"github.com/contextprime/contextprime/internal/updater"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Serve exposes the priming pipeline to MCP hosts over stdio: the
prime_context and gather_sources tools, the prime and prime-session
prompts, and configuration resources.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "contextprime": {
        "command": "contextprime",
        "args": ["serve"]
      }
    }
  }`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	s, err := server.New(cfg, newLogger())
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	go notifyIfOutdated(cmd.Context())

	// stdout belongs to the MCP transport; notices go to stderr.
	fmt.Fprintf(os.Stderr, "contextprime v%s serving MCP on stdio\n", server.Version)
	return mcpserver.ServeStdio(s)
}

// notifyIfOutdated runs a best-effort version check in the background
// and prints an upgrade notice to stderr. Failures are silent: serving
// never depends on reaching GitHub.
func notifyIfOutdated(ctx context.Context) {
	result := updater.CheckVersion(ctx, server.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "update available: v%s -> v%s (run: contextprime update)\n",
			result.CurrentVersion, result.LatestVersion)
	}
}
