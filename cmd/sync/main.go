package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"youtrack_sync/internal/logger"
	"youtrack_sync/internal/service/youtrack"
	"youtrack_sync/internal/storage"
	"youtrack_sync/internal/sync"
)

var (
	flagProjectID  string
	flagDBPath     string
	flagBaseURL    string
	flagBoardURL   string
	flagToken      string
	flagAgileID    string
	flagSprintID   string
	flagStateField string
	flagOpenValue  string
	flagDryRun     bool
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "youtrack-sync",
	Short: "Sync open YouTrack sprint issues into the task store as Todo tasks",
	Long: `Fetches every issue of a YouTrack sprint, keeps the ones whose state
field matches the configured "open" value, and creates a Todo task for each
one that has no task yet. Existing tasks are recognized by the "[ISSUE-ID] "
title prefix, so reruns are idempotent.

Every flag falls back to an environment variable; a .env file in the working
directory is honored.

Examples:
  # Sync a sprint identified by board and sprint ids
  youtrack-sync --project-id 6b…e2 --base-url https://host/youtrack/ \
      --agile-id 65-52 --sprint-id 66-155467

  # Same, from a pasted board URL, without writing anything
  youtrack-sync --project-id 6b…e2 \
      --board-url https://host/youtrack/agiles/65-52/66-155467 --dry-run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSync,
}

func init() {
	rootCmd.Flags().StringVar(&flagProjectID, "project-id", "", "target project UUID (env SYNC_PROJECT_ID)")
	rootCmd.Flags().StringVar(&flagDBPath, "db", "", "path to the task database (env DATABASE_PATH)")
	rootCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "YouTrack base URL, e.g. https://host/youtrack/ (env YOUTRACK_BASE_URL)")
	rootCmd.Flags().StringVar(&flagBoardURL, "board-url", "", "full board URL as an alternative to --base-url/--agile-id/--sprint-id")
	rootCmd.Flags().StringVar(&flagToken, "token", "", "YouTrack permanent token (env YOUTRACK_TOKEN)")
	rootCmd.Flags().StringVar(&flagAgileID, "agile-id", "", "agile board id, e.g. 65-52 (env YOUTRACK_AGILE_ID)")
	rootCmd.Flags().StringVar(&flagSprintID, "sprint-id", "", "sprint id, e.g. 66-155467 (env YOUTRACK_SPRINT_ID)")
	rootCmd.Flags().StringVar(&flagStateField, "state-field", "", "custom field holding the issue state (env YOUTRACK_STATE_FIELD, default State)")
	rootCmd.Flags().StringVar(&flagOpenValue, "open-value", "", "state value considered open (env YOUTRACK_OPEN_VALUE, default Open)")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "only print what would be created")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (env LOG_LEVEL, default info)")
}

// envFallback returns the flag value, or the environment variable, or the
// default, in that order
func envFallback(flagValue, envKey, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fallback
}

func runSync(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := logger.Init(envFallback(flagLogLevel, "LOG_LEVEL", "info")); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	defer logger.Sync()

	projectID, err := uuid.Parse(envFallback(flagProjectID, "SYNC_PROJECT_ID", ""))
	if err != nil {
		return fmt.Errorf("invalid --project-id: %w", err)
	}

	dbPath := envFallback(flagDBPath, "DATABASE_PATH", "")
	if dbPath == "" {
		return errors.New("missing --db (or DATABASE_PATH)")
	}

	token := envFallback(flagToken, "YOUTRACK_TOKEN", "")
	if token == "" {
		return errors.New("missing --token (or YOUTRACK_TOKEN)")
	}

	base, agileID, sprintID, err := resolveBoard()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteTaskStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := sync.NewSyncer(store).Run(context.Background(), sync.Options{
		ProjectID:  projectID,
		BaseURL:    base,
		Token:      token,
		AgileID:    agileID,
		SprintID:   sprintID,
		StateField: envFallback(flagStateField, "YOUTRACK_STATE_FIELD", "State"),
		OpenValue:  envFallback(flagOpenValue, "YOUTRACK_OPEN_VALUE", "Open"),
		DryRun:     flagDryRun,
	})
	if err != nil {
		return err
	}

	logger.GetLogger().Info("sync complete",
		zap.Int("open_issues_total", summary.OpenIssuesTotal),
		zap.Int("created", summary.Created),
		zap.Int("skipped_existing", summary.SkippedExisting),
		zap.Bool("dry_run", summary.DryRun))

	printSummary(summary)
	return nil
}

// resolveBoard picks between the board-URL path and the explicit triple
func resolveBoard() (*url.URL, string, string, error) {
	if boardURL := flagBoardURL; boardURL != "" {
		return youtrack.ParseBoardURL(boardURL)
	}

	rawBase := envFallback(flagBaseURL, "YOUTRACK_BASE_URL", "")
	if rawBase == "" {
		return nil, "", "", errors.New("missing --base-url (or YOUTRACK_BASE_URL)")
	}
	agileID := envFallback(flagAgileID, "YOUTRACK_AGILE_ID", "")
	if agileID == "" {
		return nil, "", "", errors.New("missing --agile-id (or YOUTRACK_AGILE_ID)")
	}
	sprintID := envFallback(flagSprintID, "YOUTRACK_SPRINT_ID", "")
	if sprintID == "" {
		return nil, "", "", errors.New("missing --sprint-id (or YOUTRACK_SPRINT_ID)")
	}

	base, err := youtrack.ParseBase(rawBase)
	if err != nil {
		return nil, "", "", err
	}
	return base, agileID, sprintID, nil
}

func printSummary(summary *sync.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if summary.DryRun {
		fmt.Printf("%s Dry run: no tasks were created\n", yellow("⚠"))
	} else {
		fmt.Printf("%s Sync complete\n", green("✓"))
	}
	fmt.Printf("  Open issues: %d\n", summary.OpenIssuesTotal)
	fmt.Printf("  Created:     %d\n", summary.Created)
	fmt.Printf("  Skipped:     %d (already exist)\n", summary.SkippedExisting)

	for _, title := range summary.CreatedTitles {
		fmt.Printf("  %s %s\n", cyan("+"), title)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
