package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ppiankov/factscope/internal/capability"
	"github.com/ppiankov/factscope/internal/intake"
	"github.com/ppiankov/factscope/internal/metrics"
	"github.com/ppiankov/factscope/internal/model"
	"github.com/ppiankov/factscope/internal/stance"
	"github.com/ppiankov/factscope/internal/telemetry"
)

const eiffelText = "The Eiffel Tower is located in Paris. It was built in 1889 and is in London."

// offlineConfig disables every network collaborator
func offlineConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = ""
	cfg.Stance.Enabled = false
	cfg.Retrieval.WikipediaEnabled = false
	cfg.Retrieval.SearchProvider = "none"
	cfg.Cache.Enabled = false
	return cfg
}

type fakeRetriever struct {
	perClaim int
}

func (f fakeRetriever) Retrieve(_ context.Context, claims []model.Claim) ([]model.Claim, map[string][]model.Evidence) {
	out := make([]model.Claim, len(claims))
	evidence := make(map[string][]model.Evidence, len(claims))
	for i, c := range claims {
		var list []model.Evidence
		for j := range f.perClaim {
			list = append(list, model.Evidence{
				Source:  "fake",
				Title:   fmt.Sprintf("%s result %d", c.ID, j),
				URL:     fmt.Sprintf("https://example.com/%s/%d", c.ID, j),
				Snippet: c.Text,
			})
		}
		out[i] = c.WithEvidence(list)
		evidence[c.ID] = out[i].Evidence
	}
	return out, evidence
}

type fakeNLI struct {
	label string
	prob  float64
}

func (f fakeNLI) Name() string { return "fake-nli" }

func (f fakeNLI) Classify(context.Context, string, string) (string, float64, error) {
	return f.label, f.prob, nil
}

type failingLoader struct{}

func (failingLoader) Load(context.Context, model.VerificationTask) (intake.Document, error) {
	return intake.Document{Language: "en"}, nil
}

func TestRun_EiffelWithoutCapabilities(t *testing.T) {
	p := New(offlineConfig())

	result, err := p.Run(context.Background(), model.VerificationTask{Text: eiffelText, Language: "en"})
	require.NoError(t, err)

	require.Len(t, result.Claims, 2)
	assert.Equal(t, []string{"claim-1", "claim-2"}, model.ClaimIDs(result.Claims))
	for _, c := range result.Claims {
		assert.Equal(t, model.StanceUnknown, c.Stance)
		assert.Nil(t, c.Confidence)
		assert.Empty(t, c.Evidence)
		assert.NotEmpty(t, c.Queries)
		assert.Equal(t, "en", c.Language)
	}

	assert.Equal(t, model.StanceUnknown, result.Verdict.Label)
	assert.Zero(t, result.Verdict.Confidence)
	assert.Equal(t, model.RationaleInsufficientEvidence, result.Verdict.Details.Rationale)

	assert.True(t, strings.HasPrefix(result.Report, "# FactScope Report"))
	assert.Contains(t, result.Report, "- Overall: **UNKNOWN** (0.00)")

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "en", result.Language)
	assert.Equal(t, []string{StageClaims, StagePlan, StageReport}, result.Metadata.Fallbacks)
	for _, name := range Stages() {
		assert.Contains(t, result.Metadata.Stages, name)
	}
	assert.False(t, result.Metadata.FinishedAt.Before(result.Metadata.StartedAt))
	assert.Equal(t, result.Claims[0].Queries, result.Plan["claim-1"])
}

func TestRun_InvalidTask(t *testing.T) {
	m := metrics.New()
	p := New(offlineConfig(), WithMetrics(m))

	result, err := p.Run(context.Background(), model.VerificationTask{})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, eris.Is(err, model.ErrEmptyTask))

	_, err = p.Run(context.Background(), model.VerificationTask{Text: "x", URL: "https://example.com"})
	assert.True(t, eris.Is(err, model.ErrAmbiguousTask))

	assert.InDelta(t, 2, testutil.ToFloat64(m.Runs.WithLabelValues("invalid")), 1e-9)
}

func TestRun_WithEvidenceAndStanceModel(t *testing.T) {
	m := metrics.New()
	p := New(offlineConfig(),
		WithRetriever(fakeRetriever{perClaim: 7}),
		WithStanceModel(capability.Available[stance.Model](fakeNLI{label: "ENTAILMENT", prob: 0.9})),
		WithMetrics(m))

	result, err := p.Run(context.Background(), model.VerificationTask{Text: eiffelText, Language: "en"})
	require.NoError(t, err)

	for _, c := range result.Claims {
		assert.Len(t, c.Evidence, 5, "reranker caps evidence")
		assert.Equal(t, model.StanceSupports, c.Stance)
		require.NotNil(t, c.Confidence)
		assert.InDelta(t, 0.9, *c.Confidence, 1e-9)
		assert.Len(t, result.Stances[c.ID], 5)
		assert.Equal(t, c.Evidence, result.Evidence[c.ID])
	}

	assert.Equal(t, model.StanceSupports, result.Verdict.Label)
	assert.InDelta(t, 0.9, result.Verdict.Confidence, 1e-9)
	assert.Equal(t, 10, result.Verdict.Details.LabelDistribution[model.StanceSupports])
	assert.NotContains(t, result.Metadata.Fallbacks, StageStance)
	assert.Contains(t, result.Report, "https://example.com/claim-1/")

	assert.InDelta(t, 1, testutil.ToFloat64(m.Verdicts.WithLabelValues("supports")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Fallbacks.WithLabelValues(StageClaims)), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Fallbacks.WithLabelValues(StagePlan)), 1e-9)
}

func TestRun_HeuristicStance(t *testing.T) {
	p := New(offlineConfig(), WithRetriever(fakeRetriever{perClaim: 1}))

	result, err := p.Run(context.Background(), model.VerificationTask{Text: eiffelText, Language: "en"})
	require.NoError(t, err)

	// snippets repeat the claim text, so the heuristic finds the leading terms
	assert.Equal(t, model.StanceSupports, result.Verdict.Label)
	assert.InDelta(t, stance.HeuristicSupportConfidence, result.Verdict.Confidence, 1e-9)
	assert.Contains(t, result.Metadata.Fallbacks, StageStance)
}

func TestRun_EmptyURLDocument(t *testing.T) {
	p := New(offlineConfig(), WithLoader(failingLoader{}))

	result, err := p.Run(context.Background(), model.VerificationTask{URL: "https://example.com/gone"})
	require.NoError(t, err)
	assert.Empty(t, result.Claims)
	assert.Equal(t, model.StanceUnknown, result.Verdict.Label)
	assert.Contains(t, result.Metadata.Fallbacks, StageIntake)
	assert.NotContains(t, result.Metadata.Fallbacks, StageClaims)
}

func TestRun_Traced(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	p := New(offlineConfig(), WithTracer(telemetry.NewOTel(tp)))
	result, err := p.Run(context.Background(), model.VerificationTask{Text: eiffelText, Language: "en"})
	require.NoError(t, err)

	require.NotEmpty(t, result.Metadata.TraceID)
	spans := recorder.Ended()
	require.Len(t, spans, len(Stages())+1)
	for i, name := range Stages() {
		assert.Equal(t, "stage."+name, spans[i].Name())
		assert.Equal(t, result.Metadata.TraceID, spans[i].SpanContext().TraceID().String())
	}
	assert.Equal(t, "factscope.run", spans[len(spans)-1].Name())
}

func TestStateIsolation(t *testing.T) {
	p := New(offlineConfig())
	task := model.VerificationTask{Text: eiffelText, Language: "en"}

	first, err := p.Run(context.Background(), task)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), task)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	first.Claims[0].Text = "changed"
	assert.NotEqual(t, "changed", second.Claims[0].Text)
}
