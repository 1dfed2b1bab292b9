// Package cli implements the contextprime command line: the priming
// pipeline, the gather inspector, the MCP server, and configuration
// management.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/contextprime/contextprime/internal/config"
)

var (
	verbose    bool
	projectDir string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "contextprime",
		Short: "Context Prime — proactive context synthesis for coding agents",
		Long: `Context Prime builds a task-specific briefing from a project before a
coding agent starts working: it gathers memory, structure, code, git
history and priorities, scores them for relevance, infers what the task
is for, and assembles a document fitted to the platform's context
budget.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", ".", "Project directory")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("contextprime v%s\n", rootCmd.Version)
	},
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(primeCmd)
	rootCmd.AddCommand(gatherCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// newLogger builds the CLI logger. All logging goes to stderr: stdout
// carries only the command's output so it can be piped or captured.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadProjectConfig resolves the project directory and loads the
// layered configuration for it.
func loadProjectConfig() (string, *config.Config, error) {
	root, err := filepath.Abs(projectDir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving project dir: %w", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}
