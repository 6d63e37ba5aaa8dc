package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factscope/internal/eval"
)

var (
	evalTextColumn  string
	evalLabelColumn string
	evalLimit       int
	evalLanguage    string
	evalConcurrency int
	evalOutput      string
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <dataset.csv>",
	Short: "Benchmark the pipeline on a labelled CSV dataset",
	Long: `Eval verifies every claim of a labelled dataset (for example a FEVER
export) and reports accuracy, macro F1 and a FEVER-style score.

Labels are normalized: SUPPORTS, REFUTES and NOT ENOUGH INFO map to
supports, refutes and unknown.

Example:
  factscope eval fever_dev.csv --limit 100
  factscope eval data.csv --text-column statement --label-column verdict --output scores.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	defaults := eval.DefaultDatasetOptions()
	evalCmd.Flags().StringVar(&evalTextColumn, "text-column", defaults.TextColumn, "column holding the claim text")
	evalCmd.Flags().StringVar(&evalLabelColumn, "label-column", defaults.LabelColumn, "column holding the gold label")
	evalCmd.Flags().IntVar(&evalLimit, "limit", defaults.Limit, "maximum samples (0 = all)")
	evalCmd.Flags().StringVar(&evalLanguage, "language", "en", "language of the samples")
	evalCmd.Flags().IntVar(&evalConcurrency, "concurrency", 0, "number of concurrent runs (default: concurrency.workers)")
	evalCmd.Flags().StringVar(&evalOutput, "output", "", "write per-sample records and scores as JSON")
}

func runEval(cmd *cobra.Command, args []string) error {
	samples, err := eval.LoadCSV(args[0], eval.DatasetOptions{
		TextColumn:  evalTextColumn,
		LabelColumn: evalLabelColumn,
		Limit:       evalLimit,
	})
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples in %s", args[0])
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	workers := evalConcurrency
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}

	report := eval.Benchmark(ctx, a.pipeline(), samples, evalLanguage, workers)

	if evalOutput != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(evalOutput, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	renderEval(cmd.OutOrStdout(), report)
	return nil
}
