package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/FdezRomero/whimsical-exporter/internal/config"
	"github.com/FdezRomero/whimsical-exporter/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous export runs",
		Long: `History lists runs recorded in the local history database, most recent
first. The database is advisory: the exported file tree is the
authoritative record of what succeeded.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().String("config", "", "Path to config file (default: "+config.DefaultConfigPath+")")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.History.DBPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet")
		return nil
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tFOLDER\tFORMATS\tEXPORTED\tSKIPPED\tEMPTY\tFAILURES\tSTATUS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			run.StartedAt.Format("2006-01-02 15:04"),
			run.RootURL,
			run.Formats,
			run.BoardsExported,
			run.BoardsSkipped,
			run.EmptyBoards,
			run.FormatFailures,
			run.Status,
		)
	}
	return w.Flush()
}
