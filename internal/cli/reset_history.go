package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vietddude/mergewatch/internal/core/config"
	"github.com/vietddude/mergewatch/internal/infra/storage/postgres"
)

var resetHistoryCmd = &cobra.Command{
	Use:   "reset-history",
	Short: "Clear the persisted attempt history and dead letters",
	Run:   runResetHistory,
}

func init() {
	rootCmd.AddCommand(resetHistoryCmd)
}

func runResetHistory(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := postgres.NewAttemptRepo(db).DeleteAll(ctx); err != nil {
		slog.Error("Failed to clear attempts", "error", err)
		os.Exit(1)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM dead_letters`); err != nil {
		slog.Error("Failed to clear dead letters", "error", err)
		os.Exit(1)
	}

	fmt.Println("Attempt history cleared")
}
