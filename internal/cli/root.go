package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the ddupe command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ddupe",
		Short: "Find and remove duplicate files",
		Long: `ddupe finds files with identical content under a directory tree,
keeps the lexicographically smallest path of each group and removes the
others after confirmation.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewScanCommand())
	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
