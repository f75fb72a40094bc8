package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/queue"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the collection scheduler",
	Long: `Scheduler polls active sources and enqueues a collect task whenever a
source's configured schedule is due. It only triggers; collection runs
on workers. Sources without a schedule in their config are skipped.

Schedule forms accepted in source config:
  "schedule": "*/30 * * * *"
  "schedule": {"interval": "minutes", "value": 30}
  "schedule": {"hours": 6}`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	q := queue.NewRedisQueue(app.cfg.Redis)
	defer q.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := q.Ping(ctx); err != nil {
		return err
	}

	app.logger.Info("scheduler started",
		zap.Duration("poll_interval", app.cfg.Scheduler.PollInterval))

	scheduler := queue.NewScheduler(app.store, q, app.cfg.Scheduler.PollInterval, app.logger)
	scheduler.Run(ctx)

	app.logger.Info("scheduler stopped")
	return nil
}
