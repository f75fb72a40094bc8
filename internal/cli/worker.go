package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veridex/veridex/internal/queue"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a task-queue worker",
	Long: `Worker consumes collect and factcheck tasks from the Redis queue
until interrupted. Multiple worker processes may run against the same
queue; post deduplication makes overlapping collect runs safe.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	handler, err := app.handler()
	if err != nil {
		return err
	}

	q := queue.NewRedisQueue(app.cfg.Redis)
	defer q.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := q.Ping(ctx); err != nil {
		return err
	}

	app.logger.Info("worker started",
		zap.Int("concurrency", app.cfg.Worker.Concurrency),
		zap.String("queue", app.cfg.Redis.QueueKey))

	worker := queue.NewWorker(q, handler, app.cfg.Worker.Concurrency, app.logger)
	worker.Run(ctx)

	app.logger.Info("worker stopped")
	return nil
}
