package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridex/veridex/internal/ingest"
	"github.com/veridex/veridex/internal/queue"
)

var collectAsync bool

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [source-id...]",
	Short: "Collect items from sources",
	Long: `Collect fetches items from the given sources and stores anything not
seen before. Without arguments, every active source is collected.

With --async, collect tasks are pushed to the task queue instead of
running in-process; a running worker picks them up.

Example:
  veridex collect
  veridex collect 7d8f1c2a-... 9a0b3e4d-...
  veridex collect --async 7d8f1c2a-...`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().BoolVar(&collectAsync, "async", false, "enqueue collect tasks instead of running them now")
}

func runCollect(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	ctx := cmd.Context()

	if collectAsync {
		return enqueueCollects(ctx, app, args)
	}

	coordinator := app.coordinator()

	var all []ingest.Stats
	if len(args) == 0 {
		all, err = coordinator.CollectAll(ctx, app.cfg.Worker.Concurrency)
		if err != nil {
			return err
		}
	} else {
		for _, sourceID := range args {
			stats, err := coordinator.CollectSource(ctx, sourceID)
			if err != nil {
				return err
			}
			all = append(all, stats)
		}
	}

	for _, stats := range all {
		fmt.Printf("%s  found=%d saved=%d errors=%d\n",
			stats.SourceID, stats.Found, stats.Saved, stats.Errors)
	}
	return nil
}

func enqueueCollects(ctx context.Context, app *app, args []string) error {
	if len(args) == 0 {
		sources, err := app.store.ListActiveSources(ctx)
		if err != nil {
			return err
		}
		for _, src := range sources {
			args = append(args, src.ID)
		}
	}

	q := queue.NewRedisQueue(app.cfg.Redis)
	defer q.Close()
	if err := q.Ping(ctx); err != nil {
		return err
	}

	for _, sourceID := range args {
		handle, err := q.Enqueue(ctx, queue.OpCollect, queue.CollectArgs{SourceID: sourceID})
		if err != nil {
			return err
		}
		fmt.Printf("enqueued collect %s for source %s\n", handle.ID, sourceID)
	}
	return nil
}
