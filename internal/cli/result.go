package cli

import (
	"github.com/spf13/cobra"
)

var resultAsJSON bool

// resultCmd represents the result command
var resultCmd = &cobra.Command{
	Use:   "result <post-id>",
	Short: "Show the current fact-check result for a post",
	Long: `Result prints the most recent fact-check result for a post. Results
are append-only; older results for the same post are kept but not
shown here.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		result, err := app.store.LatestResult(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(result, resultAsJSON)
	},
}

func init() {
	rootCmd.AddCommand(resultCmd)
	resultCmd.Flags().BoolVar(&resultAsJSON, "json", false, "print the full result as JSON")
}
