package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factscope/internal/model"
	"github.com/ppiankov/factscope/internal/worker"
)

var (
	concurrency   int
	outputDir     string
	batchTimeout  time.Duration
	batchLanguage string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify many texts or URLs from a file in parallel",
	Long: `Batch verifies one task per line of the input file:
- Lines starting with http:// or https:// are fetched as web pages
- Any other line is verified as text
- Blank lines, # comments and duplicates are skipped

Each task produces a JSON result and a Markdown report in the output directory.

Example:
  factscope batch claims.txt
  factscope batch urls.txt --concurrency 8 --output-dir ./reports --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent runs (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./factscope-reports", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")
	batchCmd.Flags().StringVar(&batchLanguage, "language", model.LanguageAuto, "language of every task")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	workers := concurrency
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("FactScope batch"))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("input %s · workers %d · output %s", file, workers, outputDir)))
	fmt.Fprintln(out)

	processor := worker.NewBatchProcessor(a.pipeline(), workers)
	results, err := processor.ProcessFile(ctx, file, batchLanguage)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	failures := 0
	for _, res := range results {
		name := taskName(res.Task)
		if res.Error != nil {
			failures++
			fmt.Fprintf(out, "%s %s: %v\n", errStyle.Render("✗"), name, res.Error)
			continue
		}

		base := filepath.Join(outputDir, fmt.Sprintf("%03d-%s", res.Index+1, sanitizeFilename(name)))
		if err := writeResult(base, res.Result); err != nil {
			failures++
			fmt.Fprintf(out, "%s %s: %v\n", errStyle.Render("✗"), name, err)
			continue
		}
		fmt.Fprintf(out, "%s %s %s\n", okStyle.Render("✓"), badge(res.Result.Verdict.Label), shorten(name, 80))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total %d · success %d · failures %d\n", len(results), len(results)-failures, failures)
	return nil
}

// writeResult stores base.json and base.md
func writeResult(base string, r *model.Result) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(base+".json", data, 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	if err := os.WriteFile(base+".md", []byte(r.Report), 0o644); err != nil {
		return fmt.Errorf("write Markdown: %w", err)
	}
	return nil
}

func taskName(t model.VerificationTask) string {
	if t.HasURL() {
		return t.URL
	}
	return t.Text
}

// sanitizeFilename turns a task into a short file-system friendly slug
func sanitizeFilename(s string) string {
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		s = u.Host + u.Path
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	slug := []rune(strings.TrimRight(b.String(), "-"))
	if len(slug) > 60 {
		slug = slug[:60]
	}
	if len(slug) == 0 {
		return "task"
	}
	return strings.TrimRight(string(slug), "-")
}
