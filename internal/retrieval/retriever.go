package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/factscope/internal/model"
	"github.com/ppiankov/factscope/internal/worker"
)

const (
	// DefaultMaxDocuments caps evidence per query and per claim
	DefaultMaxDocuments = 10

	// DefaultCallTimeout bounds every single provider call
	DefaultCallTimeout = 20 * time.Second
)

// Call outcomes reported to the observer
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

// CallObserver is told about every provider call
type CallObserver func(provider, outcome string)

// Retriever runs every planned query against the knowledge provider and
// the live provider and merges the results per claim
type Retriever struct {
	knowledge    SearchProvider
	live         SearchProvider
	maxDocuments int
	callTimeout  time.Duration
	workers      int
	limiter      *worker.Limiter
	observe      CallObserver
	logger       *zap.Logger
}

// Option configures a Retriever
type Option func(*Retriever)

// WithMaxDocuments sets the per-query and per-claim evidence cap
func WithMaxDocuments(n int) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.maxDocuments = n
		}
	}
}

// WithCallTimeout sets the per-call timeout
func WithCallTimeout(d time.Duration) Option {
	return func(r *Retriever) {
		if d > 0 {
			r.callTimeout = d
		}
	}
}

// WithWorkers bounds how many (claim, query) units run at once
func WithWorkers(n int) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLimiter paces provider calls, keyed by provider name
func WithLimiter(l *worker.Limiter) Option {
	return func(r *Retriever) {
		r.limiter = l
	}
}

// WithObserver registers a callback for provider call outcomes
func WithObserver(fn CallObserver) Option {
	return func(r *Retriever) {
		r.observe = fn
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Retriever) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a retriever. Either provider may be nil, which means it
// contributes no evidence.
func New(knowledge, live SearchProvider, opts ...Option) *Retriever {
	r := &Retriever{
		knowledge:    knowledge,
		live:         live,
		maxDocuments: DefaultMaxDocuments,
		callTimeout:  DefaultCallTimeout,
		workers:      8,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxDocuments returns the evidence cap
func (r *Retriever) MaxDocuments() int { return r.maxDocuments }

// Retrieve gathers evidence for every claim. Claims come back in input
// order with their evidence attached; the map is keyed by claim ID.
func (r *Retriever) Retrieve(ctx context.Context, claims []model.Claim) ([]model.Claim, map[string][]model.Evidence) {
	slots := make([][][]model.Evidence, len(claims))

	g := new(errgroup.Group)
	g.SetLimit(r.workers)
	for i, claim := range claims {
		slots[i] = make([][]model.Evidence, len(claim.Queries))
		for j, query := range claim.Queries {
			g.Go(func() error {
				slots[i][j] = r.searchQuery(ctx, claim, query)
				return nil
			})
		}
	}
	_ = g.Wait()

	updated := make([]model.Claim, len(claims))
	evidence := make(map[string][]model.Evidence, len(claims))
	for i, claim := range claims {
		merged := truncate(Merge(slots[i]...), r.maxDocuments)
		updated[i] = claim.WithEvidence(merged)
		evidence[claim.ID] = updated[i].Evidence
	}
	return updated, evidence
}

// searchQuery runs both providers for one query in parallel: knowledge
// results first, then live results, truncated to the cap
func (r *Retriever) searchQuery(ctx context.Context, claim model.Claim, query string) []model.Evidence {
	req := SearchRequest{Query: query, Language: claim.Language, Limit: r.maxDocuments}

	var knowledge, live []model.Evidence
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		knowledge = r.call(ctx, r.knowledge, req)
	}()
	go func() {
		defer wg.Done()
		live = r.call(ctx, r.live, req)
	}()
	wg.Wait()

	results := make([]model.Evidence, 0, len(knowledge)+len(live))
	results = append(results, knowledge...)
	results = append(results, live...)
	return truncate(results, r.maxDocuments)
}

type searchOutcome struct {
	evidence []model.Evidence
	err      error
	panicked any
}

// call runs one provider call in isolation. The call deadline holds even when
// the provider ignores ctx. Any failure yields no evidence.
func (r *Retriever) call(ctx context.Context, provider SearchProvider, req SearchRequest) []model.Evidence {
	if provider == nil {
		return nil
	}
	name := provider.Name()

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	if r.limiter != nil {
		if err := r.limiter.Wait(callCtx, name); err != nil {
			r.fail(name, req, fmt.Errorf("rate limiter: %w", err))
			return nil
		}
	}

	// Buffered so a provider that ignores ctx can finish after we gave up on it.
	done := make(chan searchOutcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- searchOutcome{panicked: rec}
			}
		}()
		results, err := provider.Search(callCtx, req)
		done <- searchOutcome{evidence: results, err: err}
	}()

	select {
	case <-callCtx.Done():
		r.fail(name, req, callCtx.Err())
		return nil
	case out := <-done:
		switch {
		case out.panicked != nil:
			r.logger.Warn("search provider panicked",
				zap.String("provider", name),
				zap.String("query", req.Query),
				zap.Any("panic", out.panicked))
			r.report(name, OutcomePanic)
			return nil
		case out.err != nil:
			r.fail(name, req, out.err)
			return nil
		}
		r.report(name, OutcomeOK)
		return out.evidence
	}
}

func (r *Retriever) fail(name string, req SearchRequest, err error) {
	outcome := OutcomeError
	if errors.Is(err, context.DeadlineExceeded) {
		outcome = OutcomeTimeout
	}
	r.logger.Warn("search provider failed",
		zap.String("provider", name),
		zap.String("query", req.Query),
		zap.String("outcome", outcome),
		zap.Error(err))
	r.report(name, outcome)
}

func (r *Retriever) report(name, outcome string) {
	if r.observe != nil {
		r.observe(name, outcome)
	}
}
