// Package cmd defines the whimsical-exporter command tree.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whimsical-exporter",
		Short: "Export Whimsical boards to local SVG, PNG, and PDF files",
		Long: `whimsical-exporter mirrors a Whimsical folder hierarchy onto local storage.

It signs in to whimsical.com, recursively walks the folder tree starting at
the given folder URL, and exports every board in the requested formats. A
file that already exists locally is treated as complete and never fetched
again, so interrupted runs can simply be re-run.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
