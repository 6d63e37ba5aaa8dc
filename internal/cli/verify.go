package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factscope/internal/model"
)

var (
	verifyText     string
	verifyURL      string
	verifyLanguage string
	verifyJSON     bool
	verifyReport   string
	verifyTimeout  time.Duration
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the claims in a text or a web page",
	Long: `Verify extracts the factual claims of the input, searches evidence for
each of them and reports a stance per claim plus an overall verdict.

Example:
  factscope verify --text "The Eiffel Tower is in Paris. It was completed in 1889."
  factscope verify --url https://en.wikipedia.org/wiki/Laksa --report report.md
  factscope verify --text "..." --language fr --json > result.json`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyText, "text", "", "text to verify")
	verifyCmd.Flags().StringVar(&verifyURL, "url", "", "web page to verify")
	verifyCmd.Flags().StringVar(&verifyLanguage, "language", model.LanguageAuto, "ISO 639-1 language code, or auto to detect")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "print the full result as JSON")
	verifyCmd.Flags().StringVar(&verifyReport, "report", "", "write the Markdown report to this path")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 3*time.Minute, "overall run timeout")
	verifyCmd.MarkFlagsMutuallyExclusive("text", "url")
	verifyCmd.MarkFlagsOneRequired("text", "url")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	task := model.VerificationTask{Text: verifyText, URL: verifyURL, Language: verifyLanguage}
	result, err := a.pipeline().Run(ctx, task)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if verifyReport != "" {
		if err := os.WriteFile(verifyReport, []byte(result.Report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if verifyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	renderResult(out, result, a.cfg.Output)
	if verifyReport != "" {
		fmt.Fprintf(out, "\n%s Report written to %s\n", okStyle.Render("✓"), verifyReport)
	}
	return nil
}
