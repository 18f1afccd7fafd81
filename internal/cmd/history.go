package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/harrison/csvconv/internal/config"
	"github.com/harrison/csvconv/internal/display"
	"github.com/harrison/csvconv/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversion runs",
		Long: `List conversion runs recorded with --history-db (or history_db in the
config file), most recent first. Runs are read from
$CSVCONV_HOME/history.db when no database is configured.

Examples:
  csvconv history
  csvconv history --limit 3
  csvconv history --failed 0f8fad5b-d9cb-469f-a165-70867728950e`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().String("config", "", "Path to config file, YAML or TOML (default: $CSVCONV_HOME/config.yaml)")
	cmd.Flags().String("history-db", "", "SQLite history database")
	cmd.Flags().Int("limit", 10, "Maximum number of runs to show")
	cmd.Flags().String("failed", "", "Show the failed files of the given run ID")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dbPath := cfg.HistoryDB
	if flag, _ := cmd.Flags().GetString("history-db"); flag != "" {
		dbPath = flag
	}
	if dbPath == "" {
		if dbPath, err = config.DefaultHistoryDBPath(); err != nil {
			return err
		}
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("--limit must be > 0, got %d", limit)
	}

	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		display.PrintRuns(cmd.OutOrStdout(), nil)
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history %s: %w", dbPath, err)
	}
	defer store.Close()

	if runID, _ := cmd.Flags().GetString("failed"); runID != "" {
		files, err := store.FailedFiles(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No failed files recorded for run %s\n", runID)
			return nil
		}
		display.PrintFailedFiles(cmd.OutOrStdout(), runID, files)
		return nil
	}

	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	display.PrintRuns(cmd.OutOrStdout(), runs)
	return nil
}
