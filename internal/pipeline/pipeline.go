// Package pipeline runs the verification stages in order:
// intake, claims, plan, retrieval, rerank, stance, aggregate, report.
package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/factscope/internal/aggregate"
	"github.com/ppiankov/factscope/internal/cache"
	"github.com/ppiankov/factscope/internal/capability"
	"github.com/ppiankov/factscope/internal/claims"
	"github.com/ppiankov/factscope/internal/intake"
	"github.com/ppiankov/factscope/internal/llm"
	"github.com/ppiankov/factscope/internal/metrics"
	"github.com/ppiankov/factscope/internal/model"
	"github.com/ppiankov/factscope/internal/planner"
	"github.com/ppiankov/factscope/internal/report"
	"github.com/ppiankov/factscope/internal/rerank"
	"github.com/ppiankov/factscope/internal/retrieval"
	"github.com/ppiankov/factscope/internal/stance"
	"github.com/ppiankov/factscope/internal/telemetry"
	"github.com/ppiankov/factscope/internal/worker"
)

// Stage names, in execution order
const (
	StageIntake    = "intake"
	StageClaims    = "claims"
	StagePlan      = "plan"
	StageRetrieval = "retrieval"
	StageRerank    = "rerank"
	StageStance    = "stance"
	StageAggregate = "aggregate"
	StageReport    = "report"
)

// Stages lists the stage names in execution order
func Stages() []string {
	return []string{
		StageIntake, StageClaims, StagePlan, StageRetrieval,
		StageRerank, StageStance, StageAggregate, StageReport,
	}
}

// Loader produces the run input
type Loader interface {
	Load(ctx context.Context, task model.VerificationTask) (intake.Document, error)
}

// Retriever gathers evidence for claims
type Retriever interface {
	Retrieve(ctx context.Context, claims []model.Claim) ([]model.Claim, map[string][]model.Evidence)
}

type stage struct {
	name string
	run  func(ctx context.Context, s *State) error
}

// Pipeline orchestrates the complete verification run
type Pipeline struct {
	loader    Loader
	extractor *claims.Extractor
	planner   *planner.Planner
	retriever Retriever
	reranker  *rerank.Reranker
	analyzer  *stance.Analyzer
	writer    *report.Writer

	llmCap    *capability.Capability[llm.Provider]
	stanceCap *capability.Capability[stance.Model]

	tracer  telemetry.Tracer
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
	stages  []stage
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer sets the run tracer
func WithTracer(t telemetry.Tracer) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.tracer = t
		}
	}
}

// WithMetrics records stage durations, provider calls, fallbacks and verdicts
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithLoader replaces the intake loader
func WithLoader(l Loader) Option {
	return func(p *Pipeline) {
		p.loader = l
	}
}

// WithRetriever replaces the evidence retriever
func WithRetriever(r Retriever) Option {
	return func(p *Pipeline) {
		p.retriever = r
	}
}

// WithLLM replaces the configured language capability
func WithLLM(c capability.Capability[llm.Provider]) Option {
	return func(p *Pipeline) {
		p.llmCap = &c
	}
}

// WithStanceModel replaces the configured stance model capability
func WithStanceModel(c capability.Capability[stance.Model]) Option {
	return func(p *Pipeline) {
		p.stanceCap = &c
	}
}

// New wires the pipeline from configuration. Collaborators that are not
// configured resolve to their fallbacks, so New never fails on missing
// credentials.
func New(cfg *model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		tracer: telemetry.Noop(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	if p.llmCap == nil {
		c := llm.NewCapability(llm.ConfigFromModel(cfg.LLM), p.logger)
		p.llmCap = &c
	}
	if p.stanceCap == nil {
		c := stance.NewCapability(cfg.Stance, p.logger)
		p.stanceCap = &c
	}
	if p.loader == nil {
		p.loader = intake.NewLoader(cfg.HTTP, limiter, p.logger)
	}
	if p.retriever == nil {
		p.retriever = p.newRetriever(cfg, limiter)
	}

	p.extractor = claims.NewExtractor(*p.llmCap, p.logger)
	p.planner = planner.New(*p.llmCap,
		planner.WithMaxQueries(cfg.Retrieval.MaxQueriesPerClaim),
		planner.WithWorkers(cfg.Concurrency.PlannerWorkers),
		planner.WithLogger(p.logger))
	p.reranker = rerank.New(cfg.Retrieval.TopK)
	p.analyzer = stance.NewAnalyzer(*p.stanceCap,
		stance.WithWorkers(cfg.Concurrency.StanceWorkers),
		stance.WithLogger(p.logger))
	p.writer = report.NewWriter(*p.llmCap, p.logger)

	p.stages = []stage{
		{StageIntake, p.runIntake},
		{StageClaims, p.runClaims},
		{StagePlan, p.runPlan},
		{StageRetrieval, p.runRetrieval},
		{StageRerank, p.runRerank},
		{StageStance, p.runStance},
		{StageAggregate, p.runAggregate},
		{StageReport, p.runReport},
	}
	return p
}

func (p *Pipeline) newRetriever(cfg *model.Config, limiter *worker.Limiter) Retriever {
	c, err := cache.New(cfg.Cache)
	if err != nil {
		p.logger.Warn("search cache unavailable, continuing without it", zap.Error(err))
		c = nil
	}

	opts := []retrieval.Option{retrieval.WithLimiter(limiter)}
	if p.metrics != nil {
		opts = append(opts, retrieval.WithObserver(p.metrics.ProviderCall))
	}
	return retrieval.NewFromConfig(cfg, c, p.logger, opts...)
}

// Run verifies one task. Only an invalid task is an error; every other
// failure degrades to a fallback and the run still returns a verdict.
func (p *Pipeline) Run(ctx context.Context, task model.VerificationTask) (*model.Result, error) {
	runID := uuid.NewString()
	ctx, trace := p.tracer.Start(ctx, "factscope.run")

	state := newState(task)
	state.Metadata = model.RunMetadata{
		StartedAt: p.now().UTC(),
		TraceID:   trace.ID(),
		Stages:    make(map[string]time.Duration, len(p.stages)),
	}

	trace.Annotate("run.id", runID)
	trace.Annotate("task.url", task.URL)
	trace.Annotate("task.text_preview", preview(task.Text, 300))
	trace.Annotate("task.language", state.Language)

	logger := p.logger.With(zap.String("run_id", runID))
	for _, st := range p.stages {
		stageCtx, end := trace.Stage(ctx, st.name)
		started := p.now()
		err := st.run(stageCtx, state)
		elapsed := p.now().Sub(started)
		end(err)

		state.Metadata.Stages[st.name] = elapsed
		if p.metrics != nil {
			p.metrics.ObserveStage(st.name, elapsed)
		}

		if err != nil {
			logger.Warn("run aborted", zap.String("stage", st.name), zap.Error(err))
			trace.Finish(err)
			if p.metrics != nil {
				p.metrics.Run("invalid")
			}
			return nil, err
		}
		logger.Debug("stage finished", zap.String("stage", st.name), zap.Duration("duration", elapsed))
	}

	state.Metadata.FinishedAt = p.now().UTC()

	trace.Annotate("claims", len(state.Claims))
	trace.Annotate("verdict", state.Verdict.Label.String())
	trace.Annotate("confidence", state.Verdict.Confidence)
	trace.Finish(nil)

	if p.metrics != nil {
		p.metrics.Verdict(state.Verdict.Label.String())
		p.metrics.Run("completed")
	}
	logger.Info("run finished",
		zap.Int("claims", len(state.Claims)),
		zap.String("verdict", state.Verdict.Label.String()),
		zap.Float64("confidence", state.Verdict.Confidence),
		zap.Strings("fallbacks", state.Metadata.Fallbacks))

	return state.result(runID), nil
}

func (p *Pipeline) runIntake(ctx context.Context, s *State) error {
	doc, err := p.loader.Load(ctx, s.Task)
	if err != nil {
		return err
	}
	s.Text = doc.Text
	s.Language = doc.Language
	s.Metadata.SourceURL = doc.SourceURL
	s.Metadata.Title = doc.Title
	if s.Task.HasURL() && doc.Text == "" {
		p.fallback(s, StageIntake, 1)
	}
	return nil
}

func (p *Pipeline) runClaims(ctx context.Context, s *State) error {
	extracted, usedFallback := p.extractor.Extract(ctx, s.Text, s.Language)
	s.Claims = extracted
	if usedFallback {
		p.fallback(s, StageClaims, 1)
	}
	return nil
}

func (p *Pipeline) runPlan(ctx context.Context, s *State) error {
	planned, plan, fallbacks := p.planner.Plan(ctx, s.Claims)
	s.Claims, s.Plan = planned, plan
	p.fallback(s, StagePlan, fallbacks)
	return nil
}

func (p *Pipeline) runRetrieval(ctx context.Context, s *State) error {
	s.Claims, s.Evidence = p.retriever.Retrieve(ctx, s.Claims)
	return nil
}

func (p *Pipeline) runRerank(_ context.Context, s *State) error {
	s.Claims, s.Evidence = p.reranker.RerankAll(s.Claims)
	return nil
}

func (p *Pipeline) runStance(ctx context.Context, s *State) error {
	analyzed, stances, heuristic := p.analyzer.Analyze(ctx, s.Claims)
	s.Claims, s.Stances = analyzed, stances
	p.fallback(s, StageStance, heuristic)
	return nil
}

func (p *Pipeline) runAggregate(_ context.Context, s *State) error {
	s.Verdict = aggregate.Aggregate(model.ClaimIDs(s.Claims), s.Stances)
	return nil
}

func (p *Pipeline) runReport(ctx context.Context, s *State) error {
	text, usedFallback := p.writer.Write(ctx, s.Claims, s.Verdict)
	s.Report = text
	if usedFallback {
		p.fallback(s, StageReport, 1)
	}
	return nil
}

// fallback records that n units of a stage degraded
func (p *Pipeline) fallback(s *State, stage string, n int) {
	if n <= 0 {
		return
	}
	if !slices.Contains(s.Metadata.Fallbacks, stage) {
		s.Metadata.Fallbacks = append(s.Metadata.Fallbacks, stage)
	}
	if p.metrics != nil {
		p.metrics.Fallback(stage, n)
	}
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
