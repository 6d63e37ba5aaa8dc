// Package report renders the human-readable verification report.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/factscope/internal/capability"
	"github.com/ppiankov/factscope/internal/llm"
	"github.com/ppiankov/factscope/internal/model"
)

// maxEvidenceLinks is how many evidence links the fallback lists per claim
const maxEvidenceLinks = 3

const systemPrompt = "You are a meticulous fact-checking report generator."

const reportPrompt = `You are an analytical fact-checking assistant. Summarize the verification results, citing evidence URLs.
Structure the response in Markdown with sections for Summary, Verdict, and Supporting Evidence.`

type reportEvidence struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type reportClaim struct {
	Text       string           `json:"text"`
	Stance     string           `json:"stance"`
	Confidence *float64         `json:"confidence"`
	Evidence   []reportEvidence `json:"evidence"`
}

type reportData struct {
	Verdict    string        `json:"verdict"`
	Confidence float64       `json:"confidence"`
	Claims     []reportClaim `json:"claims"`
}

// Writer produces the markdown report of a run
type Writer struct {
	llm    capability.Capability[llm.Provider]
	logger *zap.Logger
}

// NewWriter creates a report writer
func NewWriter(provider capability.Capability[llm.Provider], logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{llm: provider, logger: logger}
}

// Write returns the report and whether the deterministic fallback was used
func (w *Writer) Write(ctx context.Context, claims []model.Claim, verdict model.Verdict) (string, bool) {
	provider, ok := w.llm.Get()
	if !ok {
		return Fallback(claims, verdict), true
	}

	report, err := w.generate(ctx, provider, claims, verdict)
	if err != nil {
		w.logger.Warn("report generation failed, using fallback report",
			zap.String("provider", provider.Name()),
			zap.Error(err))
		return Fallback(claims, verdict), true
	}
	return report, false
}

func (w *Writer) generate(ctx context.Context, provider llm.Provider, claims []model.Claim, verdict model.Verdict) (string, error) {
	data := reportData{
		Verdict:    verdict.Label.String(),
		Confidence: verdict.Confidence,
		Claims:     make([]reportClaim, 0, len(claims)),
	}
	for _, c := range claims {
		rc := reportClaim{
			Text:       c.Text,
			Stance:     c.Stance.String(),
			Confidence: c.Confidence,
			Evidence:   make([]reportEvidence, 0, len(c.Evidence)),
		}
		for _, ev := range c.Evidence {
			rc.Evidence = append(rc.Evidence, reportEvidence{Title: ev.Title, URL: ev.URL, Snippet: ev.Snippet})
		}
		data.Claims = append(data.Claims, rc)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", eris.Wrap(err, "encode report data")
	}

	resp, err := provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: reportPrompt + "\n\nDATA:\n" + string(payload)},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "generate report")
	}

	report := strings.TrimSpace(resp.Content)
	if report == "" {
		return "", eris.New("empty report")
	}
	return report, nil
}

// Fallback renders a deterministic markdown report
func Fallback(claims []model.Claim, verdict model.Verdict) string {
	lines := []string{
		"# FactScope Report",
		"## Verdict",
		fmt.Sprintf("- Overall: **%s** (%s)", strings.ToUpper(verdict.Label.String()), formatConfidence(&verdict.Confidence)),
		"## Claims",
	}
	for _, c := range claims {
		lines = append(lines,
			"- **Claim:** "+c.Text,
			fmt.Sprintf("  - Verdict: %s (%s)", c.Stance, formatConfidence(c.Confidence)))
		if len(c.Evidence) > 0 {
			lines = append(lines, "  - Evidence:")
			for i, ev := range c.Evidence {
				if i == maxEvidenceLinks {
					break
				}
				lines = append(lines, fmt.Sprintf("    - [%s](%s)", ev.Title, ev.URL))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func formatConfidence(v *float64) string {
	if v == nil {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", *v)
}
