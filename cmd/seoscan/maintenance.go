package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/spf13/cobra"
)

// Retry policy for maintenance operations. SQLite returns busy errors
// when a crawl holds the write lock, so maintenance retries a few times
// with growing pauses instead of failing on the first contention.
const (
	maintenanceAttempts = 3
	maintenanceBackoff  = 500 * time.Millisecond
)

// NewMaintenanceCmd creates the maintenance command group.
func NewMaintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Database maintenance tasks",
		Long: `Maintenance groups housekeeping tasks for the audit database.

Subcommands:
  cleanup  Remove finished audit jobs older than the retention period
  health   Verify the database is reachable and the schema is intact

These are safe to run from cron; they retry briefly when an audit holds
the database lock.`,
	}

	cmd.AddCommand(newCleanupCmd())
	cmd.AddCommand(newHealthCmd())

	return cmd
}

// newCleanupCmd creates the maintenance cleanup subcommand.
func newCleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove finished audit jobs past the retention period",
		Long: `Cleanup deletes completed and failed audit jobs older than the
retention period, together with their pages, findings, and reports.
Running and pending jobs are never removed.

Examples:
  # Remove jobs older than 30 days (the default)
  seoscan maintenance cleanup

  # Keep only the last week
  seoscan maintenance cleanup --retention-days 7`,
		RunE: runCleanupCmd,
	}

	cmd.Flags().Int("retention-days", config.DefaultRetentionDays,
		"Remove finished jobs older than this many days")

	return cmd
}

// runCleanupCmd executes the cleanup subcommand.
func runCleanupCmd(cmd *cobra.Command, _ []string) error {
	retentionDays, err := cmd.Flags().GetInt("retention-days")
	if err != nil {
		return err
	}
	if retentionDays <= 0 {
		return fmt.Errorf("retention-days must be positive, got %d", retentionDays)
	}

	db, err := openMaintenanceDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	retention := time.Duration(retentionDays) * 24 * time.Hour

	var removed int64
	err = withRetry(ctx, func() error {
		var cleanupErr error
		removed, cleanupErr = db.CleanupOldJobs(ctx, retention)
		return cleanupErr
	})
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if removed == 0 {
		fmt.Printf("No jobs older than %d days found.\n", retentionDays)
		return nil
	}
	fmt.Printf("Removed %d finished jobs older than %d days.\n", removed, retentionDays)

	return nil
}

// newHealthCmd creates the maintenance health subcommand.
func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Verify the audit database is healthy",
		Long: `Health verifies the audit database is reachable and its schema is
usable, then prints a short summary of its contents.

Exits non-zero when the database cannot be opened or queried, which
makes it suitable as a monitoring probe.`,
		RunE: runHealthCmd,
	}
}

// runHealthCmd executes the health subcommand.
func runHealthCmd(_ *cobra.Command, _ []string) error {
	db, err := openMaintenanceDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	if err := withRetry(ctx, func() error { return db.HealthCheck(ctx) }); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	sites, err := db.ListAuditedSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	fmt.Println("Database: OK")
	fmt.Printf("Audited sites: %d\n", len(sites))

	return nil
}

// openMaintenanceDB opens the audit database from the standard location.
func openMaintenanceDB() (*database.AuditDB, error) {
	dbDir := config.XDGDataDir()
	if dir := os.Getenv("SEOSCAN_DB_DIR"); dir != "" {
		dbDir = dir
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// withRetry runs fn up to maintenanceAttempts times, doubling the pause
// between attempts. The context aborts the wait, not a running attempt.
func withRetry(ctx context.Context, fn func() error) error {
	backoff := maintenanceBackoff

	var err error
	for attempt := 0; attempt < maintenanceAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
