// Package rerank orders a claim's evidence by relevance and keeps the best items.
package rerank

import (
	"math"
	"sort"
	"strings"

	"github.com/ppiankov/factscope/internal/model"
)

// DefaultTopK is the number of evidence items kept per claim
const DefaultTopK = 5

// Reranker scores evidence by lexical overlap with the claim plus the
// provider's own score. Kept items are tagged with their source authority
// tier; the tier does not affect the order.
type Reranker struct {
	topK      int
	authority *AuthorityClassifier
}

// Option configures a Reranker
type Option func(*Reranker)

// WithAuthority replaces the default authority classifier
func WithAuthority(a *AuthorityClassifier) Option {
	return func(r *Reranker) {
		if a != nil {
			r.authority = a
		}
	}
}

// New creates a reranker that keeps at most topK items
func New(topK int, opts ...Option) *Reranker {
	if topK <= 0 {
		topK = DefaultTopK
	}
	r := &Reranker{
		topK:      topK,
		authority: NewAuthorityClassifier(DefaultAuthorityDomains()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TopK returns the cap on returned items
func (r *Reranker) TopK() int {
	return r.topK
}

type scored struct {
	score    float64
	evidence model.Evidence
}

// Rerank returns at most TopK items, highest score first. Items with equal
// scores keep their input order.
func (r *Reranker) Rerank(claim model.Claim, evidence []model.Evidence) []model.Evidence {
	items := make([]scored, len(evidence))
	for i, ev := range evidence {
		items[i] = scored{
			score:    LexicalOverlap(claim.Text, ev.Snippet) + ev.ScoreOrZero(),
			evidence: ev,
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	n := min(len(items), r.topK)
	out := make([]model.Evidence, n)
	for i := range n {
		ev := items[i].evidence.Clone()
		if ev.Metadata == nil {
			ev.Metadata = map[string]any{}
		}
		ev.Metadata[AuthorityMetadataKey] = r.authority.Classify(ev.URL).String()
		out[i] = ev
	}
	return out
}

// RerankAll reranks every claim's evidence and returns the updated claims
// and the evidence map keyed by claim ID
func (r *Reranker) RerankAll(claims []model.Claim) ([]model.Claim, map[string][]model.Evidence) {
	updated := make([]model.Claim, len(claims))
	byClaim := make(map[string][]model.Evidence, len(claims))
	for i, c := range claims {
		updated[i] = c.WithEvidence(r.Rerank(c, c.Evidence))
		byClaim[c.ID] = updated[i].Evidence
	}
	return updated, byClaim
}

// LexicalOverlap scores how much of the query appears in text: for every
// query term (lower-cased, whitespace split) that occurs tf > 0 times in
// text, ln(1+tf) is added. Repeated query terms count again.
func LexicalOverlap(query, text string) float64 {
	docTerms := strings.Fields(strings.ToLower(text))
	if len(docTerms) == 0 {
		return 0
	}

	tf := make(map[string]int, len(docTerms))
	for _, term := range docTerms {
		tf[term]++
	}

	score := 0.0
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if n := tf[term]; n > 0 {
			score += math.Log1p(float64(n))
		}
	}
	return score
}
