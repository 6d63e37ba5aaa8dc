package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/factscope/internal/eval"
	"github.com/ppiankov/factscope/internal/model"
	"github.com/ppiankov/factscope/internal/pipeline"
	"github.com/ppiankov/factscope/internal/rerank"
)

// Color palette
const (
	colorPrimary = "#7D56F4"
	colorSupport = "#04B575"
	colorRefute  = "#FF4F4F"
	colorMixed   = "#FFA62B"
	colorMuted   = "#626262"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorSupport))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorRefute))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	badgeBase = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

func labelColor(label model.StanceLabel) string {
	switch label {
	case model.StanceSupports:
		return colorSupport
	case model.StanceRefutes:
		return colorRefute
	case model.StanceMixed:
		return colorMixed
	default:
		return colorMuted
	}
}

// badge renders a stance label as an upper-case colored tag
func badge(label model.StanceLabel) string {
	return badgeBase.
		Foreground(lipgloss.Color(labelColor(label))).
		Render(strings.ToUpper(string(label)))
}

// renderResult prints a verification result for the terminal
func renderResult(w io.Writer, r *model.Result, out model.OutputConfig) {
	header := fmt.Sprintf("%s %s %s",
		titleStyle.Render("Verdict"),
		badge(r.Verdict.Label),
		mutedStyle.Render(fmt.Sprintf("confidence %.2f", r.Verdict.Confidence)))
	if r.Metadata.Title != "" || r.Metadata.SourceURL != "" {
		header += "\n" + mutedStyle.Render(strings.TrimSpace(r.Metadata.Title+" "+r.Metadata.SourceURL))
	}
	fmt.Fprintln(w, boxStyle.Render(header))
	fmt.Fprintln(w)

	if len(r.Claims) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No checkable claims found."))
	}

	for i, c := range r.Claims {
		conf := "n/a"
		if c.Confidence != nil {
			conf = fmt.Sprintf("%.2f", *c.Confidence)
		}
		fmt.Fprintf(w, "%d. %s\n   %s %s\n", i+1, c.Text, badge(c.Stance), mutedStyle.Render(conf))

		for j, ev := range c.Evidence {
			if out.MaxEvidence > 0 && j >= out.MaxEvidence {
				fmt.Fprintf(w, "   %s\n", mutedStyle.Render(fmt.Sprintf("… %d more", len(c.Evidence)-j)))
				break
			}
			line := ev.Title
			if a, ok := r.AssessmentFor(c.ID, ev.URL); ok {
				line = fmt.Sprintf("%s [%s]", line, a.Label)
			}
			source := ev.URL
			if tier, ok := ev.Metadata[rerank.AuthorityMetadataKey].(string); ok {
				source += " · " + tier
			}
			fmt.Fprintf(w, "   • %s\n     %s\n", line, mutedStyle.Render(source))
			if out.Verbose && ev.Snippet != "" {
				fmt.Fprintf(w, "     %s\n", shorten(ev.Snippet, out.SnippetChars))
			}
		}
	}

	if len(r.Metadata.Fallbacks) > 0 {
		fmt.Fprintf(w, "\n%s %s\n", errStyle.Render("degraded:"), strings.Join(r.Metadata.Fallbacks, ", "))
	}

	if out.Verbose {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Stages"))
		for _, name := range stageOrder(r.Metadata.Stages) {
			fmt.Fprintf(w, "  %-10s %s\n", name, r.Metadata.Stages[name].Round(time.Millisecond))
		}
		if r.Metadata.TraceID != "" {
			fmt.Fprintf(w, "  trace      %s\n", r.Metadata.TraceID)
		}
	}
}

// renderEval prints benchmark scores
func renderEval(w io.Writer, report eval.Report) {
	rows := []string{
		fmt.Sprintf("%-12s %d", "samples", len(report.Records)),
		fmt.Sprintf("%-12s %d", "failures", report.Failures),
		fmt.Sprintf("%-12s %.3f", "accuracy", report.Accuracy),
		fmt.Sprintf("%-12s %.3f", "macro F1", report.MacroF1),
		fmt.Sprintf("%-12s %.3f", "FEVER", report.FEVERScore),
	}
	fmt.Fprintln(w, boxStyle.Render(titleStyle.Render("Benchmark")+"\n"+strings.Join(rows, "\n")))
}

// shorten truncates s to n runes; n <= 0 keeps everything
func shorten(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if n <= 0 || len(runes) <= n {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// stageOrder lists the recorded stages in execution order
func stageOrder(stages map[string]time.Duration) []string {
	var names []string
	for _, name := range pipeline.Stages() {
		if _, ok := stages[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
