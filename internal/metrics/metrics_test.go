package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ProviderCall("wikipedia", "ok")
	m.ProviderCall("wikipedia", "ok")
	m.ProviderCall("tavily", "timeout")
	m.Fallback("claims", 1)
	m.Fallback("stance", 0)
	m.Fallback("stance", 3)
	m.Verdict("supports")
	m.Run("completed")

	assert.InDelta(t, 2, testutil.ToFloat64(m.ProviderCalls.WithLabelValues("wikipedia", "ok")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderCalls.WithLabelValues("tavily", "timeout")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Fallbacks.WithLabelValues("claims")), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(m.Fallbacks.WithLabelValues("stance")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Verdicts.WithLabelValues("supports")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Runs.WithLabelValues("completed")), 1e-9)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveStage("retrieval", 150*time.Millisecond)
	m.Verdict("mixed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `factscope_stage_duration_seconds_count{stage="retrieval"} 1`)
	assert.Contains(t, string(body), `factscope_verdicts_total{label="mixed"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
