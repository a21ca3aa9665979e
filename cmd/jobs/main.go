// Command jobs runs one of the periodic batch jobs once and exits
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agromonitor.app/internal/adapters/infrastructure"
	"agromonitor.app/internal/app"
	"agromonitor.app/internal/ports"
	"agromonitor.app/internal/scheduler"
	"agromonitor.app/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var failOnError bool

var rootCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run agromonitor batch jobs on demand",
	Long: `Runs a single batch job against the configured database, telemetry store
and external services, then prints the run summary as JSON.`,
	SilenceUsage: true,
}

func batchCommand(use, short, job string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), cmd, job)
		},
	}
}

func runBatch(ctx context.Context, cmd *cobra.Command, job string) error {
	application, err := app.NewApplication()
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := application.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Error during shutdown", "error", err)
		}
	}()

	run, ok := application.Batches().ByName()[job]
	if !ok || run == nil {
		return fmt.Errorf("unknown job %q", job)
	}

	result := run(ctx)
	scheduler.LogResult(infrastructure.NewSlogLoggerAdapter(slog.Default()), job, result)

	if err := printResult(cmd, result); err != nil {
		return err
	}
	if failOnError && result.Failed > 0 {
		return fmt.Errorf("%s: %d of %d items failed", job, result.Failed, result.Total)
	}
	return nil
}

func printResult(cmd *cobra.Command, result ports.BatchResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{
		"job":        result.Job,
		"total":      result.Total,
		"succeeded":  result.Succeeded,
		"failed":     result.Failed,
		"skipped":    result.Skipped,
		"notified":   result.Notified,
		"durationMs": result.Duration.Milliseconds(),
	})
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&failOnError, "fail-on-error", false, "exit non-zero when any item fails")

	rootCmd.AddCommand(
		batchCommand("daily-schedules", "Create today's watering schedule for every active location", scheduler.JobDailySchedules),
		batchCommand("check-moisture", "Refresh soil readings and alert on low moisture", scheduler.JobMoistureCheck),
		batchCommand("update-battery", "Refresh battery levels and alert on low battery", scheduler.JobBatteryUpdate),
		batchCommand("send-reminders", "Remind owners about today's pending schedules", scheduler.JobWateringReminders),
	)
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found or error loading it")
	}
	logger.NewWithLevel(logger.ParseLevel(os.Getenv("LOG_LEVEL"))).SetDefault()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
