package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement/ledger"
	"github.com/FACorreiaa/statement-converter/pkg/cron"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		inbox    string
		schedule string
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert new statements dropped into an inbox folder",
		Long: `Scan an inbox folder on a cron schedule and convert every PDF that has
not been processed yet. Processed files, failed ones included, are recorded in
a ledger file and only converted again when they change.

Example:
  statement-converter watch --inbox ~/statements --schedule "*/10 * * * *"
  statement-converter watch --once`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&inbox, "inbox", "", "folder to scan (overrides WATCH_INBOX)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule (overrides WATCH_SCHEDULE)")
	cmd.Flags().BoolVar(&once, "once", false, "scan once and exit")

	cmd.RunE = a.withDeps("", func(cmd *cobra.Command, args []string, deps *Dependencies) error {
		cfg := deps.Config.Watch
		if inbox != "" {
			cfg.Inbox = inbox
		}
		if schedule != "" {
			cfg.Schedule = schedule
		}
		if info, err := os.Stat(cfg.Inbox); err != nil || !info.IsDir() {
			return fmt.Errorf("inbox %s is not a folder", cfg.Inbox)
		}

		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer l.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched := cron.NewScheduler(deps.Service, l, cfg.Inbox, cfg.Schedule, deps.Logger)
		if once {
			return sched.RunNow(ctx)
		}

		if err := sched.Start(); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
		}
		if err := sched.RunNow(ctx); err != nil && ctx.Err() == nil {
			deps.Logger.Error("inbox scan failed", slog.Any("error", err))
		}

		<-ctx.Done()
		deps.Logger.Info("shutting down", slog.String("reason", context.Cause(ctx).Error()))
		<-sched.Stop().Done()
		return nil
	})
	return cmd
}
