// Package stance judges how each evidence item relates to its claim.
package stance

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/factscope/internal/capability"
	"github.com/ppiankov/factscope/internal/model"
)

// Heuristic confidences
const (
	HeuristicSupportConfidence = 0.35
	HeuristicUnknownConfidence = 0.2
)

// heuristicTerms is how many leading claim tokens the heuristic looks for
const heuristicTerms = 3

// Analyzer assesses every (claim, evidence) pair
type Analyzer struct {
	model   capability.Capability[Model]
	workers int
	logger  *zap.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithWorkers bounds how many pairs are assessed at once
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates a stance analyzer
func NewAnalyzer(m capability.Capability[Model], opts ...Option) *Analyzer {
	a := &Analyzer{
		model:   m,
		workers: 8,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MapLabel maps a raw model label onto the stance label set
func MapLabel(raw string) model.StanceLabel {
	name := strings.ToLower(raw)
	switch {
	case strings.Contains(name, "entail"), strings.Contains(name, "support"):
		return model.StanceSupports
	case strings.Contains(name, "contrad"), strings.Contains(name, "refute"):
		return model.StanceRefutes
	case strings.Contains(name, "neutral"), strings.Contains(name, "unknown"):
		return model.StanceUnknown
	default:
		return model.StanceNeutral
	}
}

// Heuristic supports the claim when any of its first three tokens appears
// in the snippet, and is unknown otherwise
func Heuristic(claim model.Claim, ev model.Evidence) model.StanceAssessment {
	snippet := strings.ToLower(ev.Snippet)
	terms := strings.Fields(strings.ToLower(claim.Text))
	if len(terms) > heuristicTerms {
		terms = terms[:heuristicTerms]
	}

	for _, term := range terms {
		if strings.Contains(snippet, term) {
			return model.StanceAssessment{
				ClaimID:    claim.ID,
				Evidence:   ev,
				Label:      model.StanceSupports,
				Confidence: HeuristicSupportConfidence,
				Rationale:  "heuristic: claim term " + term + " found in snippet",
			}
		}
	}

	return model.StanceAssessment{
		ClaimID:    claim.ID,
		Evidence:   ev,
		Label:      model.StanceUnknown,
		Confidence: HeuristicUnknownConfidence,
		Rationale:  "heuristic: no claim term in snippet",
	}
}

// Assess returns exactly one assessment for the pair
func (a *Analyzer) Assess(ctx context.Context, claim model.Claim, ev model.Evidence) model.StanceAssessment {
	result, _ := a.assess(ctx, claim, ev)
	return result
}

// assess reports whether the heuristic had to be used
func (a *Analyzer) assess(ctx context.Context, claim model.Claim, ev model.Evidence) (model.StanceAssessment, bool) {
	m, ok := a.model.Get()
	if !ok || strings.TrimSpace(claim.Text) == "" || strings.TrimSpace(ev.Snippet) == "" {
		return Heuristic(claim, ev), true
	}

	raw, probability, err := m.Classify(ctx, claim.Text, ev.Snippet)
	if err != nil {
		a.logger.Warn("stance model failed, using heuristic",
			zap.String("claim_id", claim.ID),
			zap.String("url", ev.URL),
			zap.Error(err))
		return Heuristic(claim, ev), true
	}

	return model.StanceAssessment{
		ClaimID:    claim.ID,
		Evidence:   ev,
		Label:      MapLabel(raw),
		Confidence: clamp(probability),
		Rationale:  "model: " + raw,
	}, false
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Representative returns the first assessment with the highest confidence
func Representative(assessments []model.StanceAssessment) (model.StanceAssessment, bool) {
	if len(assessments) == 0 {
		return model.StanceAssessment{}, false
	}
	best := assessments[0]
	for _, a := range assessments[1:] {
		if a.Confidence > best.Confidence {
			best = a
		}
	}
	return best, true
}

type pair struct {
	claim int
	ev    int
}

// Analyze assesses all pairs concurrently, then rolls each claim up to its
// representative stance. Claims without evidence keep the unknown stance.
// The third return value counts heuristic assessments.
func (a *Analyzer) Analyze(ctx context.Context, claims []model.Claim) ([]model.Claim, map[string][]model.StanceAssessment, int) {
	slots := make([][]model.StanceAssessment, len(claims))
	heuristic := make([][]bool, len(claims))
	var pairs []pair
	for i, c := range claims {
		slots[i] = make([]model.StanceAssessment, len(c.Evidence))
		heuristic[i] = make([]bool, len(c.Evidence))
		for j := range c.Evidence {
			pairs = append(pairs, pair{claim: i, ev: j})
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(a.workers)
	for _, p := range pairs {
		g.Go(func() error {
			c := claims[p.claim]
			slots[p.claim][p.ev], heuristic[p.claim][p.ev] = a.assess(ctx, c, c.Evidence[p.ev])
			return nil
		})
	}
	_ = g.Wait()

	updated := make([]model.Claim, len(claims))
	results := make(map[string][]model.StanceAssessment, len(claims))
	heuristicCount := 0
	for i, c := range claims {
		results[c.ID] = slots[i]
		updated[i] = c
		if best, ok := Representative(slots[i]); ok {
			updated[i] = c.WithStance(best.Label, best.Confidence)
		}
		for _, h := range heuristic[i] {
			if h {
				heuristicCount++
			}
		}
	}
	return updated, results, heuristicCount
}
