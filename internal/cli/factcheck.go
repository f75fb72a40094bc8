package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/queue"
)

var (
	factcheckSource string
	factcheckManual []string
	factcheckAsync  bool
	factcheckAsJSON bool
)

// factcheckCmd represents the factcheck command
var factcheckCmd = &cobra.Command{
	Use:   "factcheck [post-id]",
	Short: "Fact-check stored posts",
	Long: `Factcheck scores a stored post: extracts candidate claims, gathers
references from the internal store, manual URLs, and (if configured)
web search, and computes a verdict with a confidence.

Without a post id, every post that has no result yet is checked;
--source restricts that batch to one source. Every run appends a new
result; the latest one is the current verdict.

Example:
  veridex factcheck 3f2a9b1c-...
  veridex factcheck 3f2a9b1c-... --manual-source https://example.com/report
  veridex factcheck --source 7d8f1c2a-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFactCheck,
}

func init() {
	rootCmd.AddCommand(factcheckCmd)
	factcheckCmd.Flags().StringVar(&factcheckSource, "source", "", "restrict the batch run to one source id")
	factcheckCmd.Flags().StringArrayVar(&factcheckManual, "manual-source", nil, "manually supplied reference URL (repeatable)")
	factcheckCmd.Flags().BoolVar(&factcheckAsync, "async", false, "enqueue the task instead of running it now")
	factcheckCmd.Flags().BoolVar(&factcheckAsJSON, "json", false, "print the full result as JSON")
}

func runFactCheck(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	ctx := cmd.Context()

	if factcheckAsync {
		if len(args) == 0 {
			return fmt.Errorf("--async requires a post id")
		}
		q := queue.NewRedisQueue(app.cfg.Redis)
		defer q.Close()
		if err := q.Ping(ctx); err != nil {
			return err
		}
		handle, err := q.Enqueue(ctx, queue.OpFactCheck, queue.FactCheckArgs{
			PostID:        args[0],
			ManualSources: factcheckManual,
		})
		if err != nil {
			return err
		}
		fmt.Printf("enqueued factcheck %s for post %s\n", handle.ID, args[0])
		return nil
	}

	orchestrator, err := app.orchestrator()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		result, err := orchestrator.RunPost(ctx, args[0], factcheckManual)
		if err != nil {
			return err
		}
		return printResult(result, factcheckAsJSON)
	}

	results, err := orchestrator.RunNew(ctx, factcheckSource)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("nothing to check")
		return nil
	}
	for _, result := range results {
		fmt.Printf("%s  verdict=%s confidence=%.2f claims=%d references=%d\n",
			result.PostID, result.Verdict, result.Confidence,
			len(result.Claims), len(result.References))
	}
	return nil
}

func printResult(result *model.FactCheckResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("%s  verdict=%s confidence=%.2f claims=%d references=%d\n",
		result.PostID, result.Verdict, result.Confidence,
		len(result.Claims), len(result.References))
	return nil
}
