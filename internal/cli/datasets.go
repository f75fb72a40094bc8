package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var datasetSourceLabel string

// updateDatasetsCmd represents the update-datasets command
var updateDatasetsCmd = &cobra.Command{
	Use:   "update-datasets",
	Short: "Refresh tracked statistical datasets",
	Long: `Update-datasets re-collects every active statistical-dataset source,
refreshing the stored snapshot of each tracked dataset code. New
periods also land as regular posts, so they flow into fact-checking
like any other item.`,
	RunE: runUpdateDatasets,
}

func init() {
	rootCmd.AddCommand(updateDatasetsCmd)
	updateDatasetsCmd.Flags().StringVar(&datasetSourceLabel, "source-label", "eurostat", "dataset source label to summarize after the run")
}

func runUpdateDatasets(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	ctx := cmd.Context()

	all, err := app.coordinator().UpdateDatasets(ctx, app.cfg.Worker.Concurrency)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("no active statistical-dataset sources")
		return nil
	}

	for _, stats := range all {
		fmt.Printf("%s  found=%d saved=%d errors=%d\n",
			stats.SourceID, stats.Found, stats.Saved, stats.Errors)
	}

	codes, err := app.store.ListDatasetCodes(ctx, datasetSourceLabel)
	if err != nil {
		return err
	}
	fmt.Printf("tracking %d %s dataset(s): %s\n",
		len(codes), datasetSourceLabel, strings.Join(codes, ", "))
	return nil
}
