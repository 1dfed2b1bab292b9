package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/contextprime/contextprime/internal/updater"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update contextprime to the latest release",
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only check for a newer release, don't install it")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	checkOnly, _ := cmd.Flags().GetBool("check")

	result := updater.CheckVersion(cmd.Context(), rootCmd.Version)
	if !result.UpdateAvailable {
		fmt.Printf("Already at the latest version (v%s)\n", result.CurrentVersion)
		return nil
	}

	if checkOnly {
		fmt.Printf("Update available: v%s -> v%s\n", result.CurrentVersion, result.LatestVersion)
		fmt.Printf("Release: %s\n", result.ReleaseURL)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Updating v%s -> v%s...\n", result.CurrentVersion, result.LatestVersion)
	if err := updater.SelfUpdate(cmd.Context(), rootCmd.Version); err != nil {
		return fmt.Errorf("update failed: %w (download manually from %s)", err, result.ReleaseURL)
	}

	fmt.Printf("Updated to v%s. Restart contextprime to use it.\n", result.LatestVersion)
	return nil
}
