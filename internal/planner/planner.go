// Package planner turns claims into web search queries.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/factscope/internal/capability"
	"github.com/ppiankov/factscope/internal/llm"
	"github.com/ppiankov/factscope/internal/model"
)

const (
	// MaxQueries caps the queries kept per claim
	MaxQueries = 5

	// baseQueryRunes is how much of the claim text the fallback searches for
	baseQueryRunes = 180
)

const systemPrompt = "You create fact-checking search queries."

const planningPrompt = `Given a factual claim, propose up to five concise web search queries that would help verify it.
Return JSON with a "queries" list containing strings ordered by usefulness.`

var errNoQueries = eris.New("no usable queries in answer")

type planResponse struct {
	Queries []any `json:"queries"`
}

// Planner plans search queries per claim, concurrently and with per-claim fallback
type Planner struct {
	llm        capability.Capability[llm.Provider]
	maxQueries int
	workers    int
	logger     *zap.Logger
}

// Option configures a Planner
type Option func(*Planner)

// WithMaxQueries overrides the per-claim query cap (at most MaxQueries)
func WithMaxQueries(n int) Option {
	return func(p *Planner) {
		if n > 0 && n < MaxQueries {
			p.maxQueries = n
		}
	}
}

// WithWorkers bounds how many claims are planned at once
func WithWorkers(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a query planner
func New(provider capability.Capability[llm.Provider], opts ...Option) *Planner {
	p := &Planner{
		llm:        provider,
		maxQueries: MaxQueries,
		workers:    4,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan returns the claims with their queries attached, the plan keyed by
// claim ID, and how many claims fell back to heuristic queries.
// Claim order is preserved.
func (p *Planner) Plan(ctx context.Context, claims []model.Claim) ([]model.Claim, map[string][]string, int) {
	queries := make([][]string, len(claims))
	fellBack := make([]bool, len(claims))

	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i, claim := range claims {
		g.Go(func() error {
			queries[i], fellBack[i] = p.planClaim(ctx, claim)
			return nil
		})
	}
	_ = g.Wait()

	updated := make([]model.Claim, len(claims))
	plan := make(map[string][]string, len(claims))
	fallbacks := 0
	for i, claim := range claims {
		updated[i] = claim.WithQueries(queries[i])
		plan[claim.ID] = updated[i].Queries
		if fellBack[i] {
			fallbacks++
		}
	}
	return updated, plan, fallbacks
}

func (p *Planner) planClaim(ctx context.Context, claim model.Claim) ([]string, bool) {
	provider, ok := p.llm.Get()
	if !ok {
		return p.limit(Fallback(claim)), true
	}

	queries, err := p.planWithLLM(ctx, provider, claim)
	if err != nil {
		p.logger.Warn("query planning failed, using heuristic queries",
			zap.String("claim_id", claim.ID),
			zap.String("provider", provider.Name()),
			zap.Error(err))
		return p.limit(Fallback(claim)), true
	}
	return p.limit(queries), false
}

func (p *Planner) planWithLLM(ctx context.Context, provider llm.Provider, claim model.Claim) ([]string, error) {
	entities := "N/A"
	if len(claim.Entities) > 0 {
		entities = strings.Join(claim.Entities, ", ")
	}
	user := fmt.Sprintf("%s\n\nCLAIM: %s\nENTITIES: %s", planningPrompt, claim.Text, entities)

	var resp planResponse
	if err := llm.ChatJSON(ctx, provider, systemPrompt, user, &resp); err != nil {
		return nil, eris.Wrapf(err, "plan queries for %s", claim.ID)
	}

	var queries []string
	for _, q := range resp.Queries {
		if q == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(q)); s != "" {
			queries = append(queries, s)
		}
	}
	if len(queries) == 0 {
		return nil, errNoQueries
	}
	return queries, nil
}

func (p *Planner) limit(queries []string) []string {
	if len(queries) > p.maxQueries {
		return queries[:p.maxQueries]
	}
	return queries
}

// Fallback builds heuristic queries: the claim text truncated to 180 runes,
// the entities joined by spaces, and "verify <first word> facts" for
// claims longer than six words. Duplicates are dropped, first occurrence wins.
func Fallback(claim model.Claim) []string {
	base := truncateRunes(claim.Text, baseQueryRunes)
	candidates := []string{base}
	if len(claim.Entities) > 0 {
		candidates = append(candidates, strings.Join(claim.Entities, " "))
	}
	if len(strings.Fields(base)) > 6 {
		first := strings.SplitN(base, " ", 2)[0]
		candidates = append(candidates, "verify "+first+" facts")
	}

	seen := make(map[string]bool, len(candidates))
	queries := make([]string, 0, len(candidates))
	for _, q := range candidates {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	return queries
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
