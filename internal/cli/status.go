package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vietddude/mergewatch/internal/core/config"
	"github.com/vietddude/mergewatch/internal/infra/storage/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest attempt outcome per watched pull request",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
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

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT ON (pull_request_id)
			pull_request_id, attempt_number, observed_state, outcome, created_at
		FROM attempts
		ORDER BY pull_request_id, created_at DESC, attempt_number DESC
	`)
	if err != nil {
		slog.Error("Failed to query attempts", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = rows.Close()
	}()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "PULL REQUEST\tATTEMPTS\tSTATE\tOUTCOME\tUPDATED")

	for rows.Next() {
		var prID, state, outcome, createdAt string
		var attempts int
		if err := rows.Scan(&prID, &attempts, &state, &outcome, &createdAt); err != nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", prID, attempts, state, outcome, createdAt)
	}
	_ = w.Flush()
}
