package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factscope/internal/model"
)

func assessment(claimID string, label model.StanceLabel, confidence float64) model.StanceAssessment {
	return model.StanceAssessment{ClaimID: claimID, Label: label, Confidence: confidence}
}

func TestAggregate_Empty(t *testing.T) {
	v := Aggregate(nil, nil)
	assert.Equal(t, model.StanceUnknown, v.Label)
	assert.Zero(t, v.Confidence)
	assert.Equal(t, model.RationaleInsufficientEvidence, v.Details.Rationale)
}

func TestAggregate_OnlyUnknown(t *testing.T) {
	results := map[string][]model.StanceAssessment{
		"c1": {assessment("c1", model.StanceUnknown, 0.2), assessment("c1", model.StanceUnknown, 0.9)},
	}
	v := Aggregate([]string{"c1"}, results)
	assert.Equal(t, model.UnknownVerdict(), v)
}

func TestAggregate_SingleLabel(t *testing.T) {
	results := map[string][]model.StanceAssessment{
		"c1": {
			assessment("c1", model.StanceSupports, 0.9),
			assessment("c1", model.StanceSupports, 0.7),
			assessment("c1", model.StanceUnknown, 0.2),
		},
	}
	v := Aggregate([]string{"c1"}, results)

	assert.Equal(t, model.StanceSupports, v.Label)
	assert.InDelta(t, 0.8, v.Confidence, 1e-9)
	require.NotNil(t, v.Details.AvgConfidence)
	assert.InDelta(t, 0.8, *v.Details.AvgConfidence, 1e-9)
	assert.Equal(t, map[model.StanceLabel]int{model.StanceSupports: 2}, v.Details.LabelDistribution)
}

func TestAggregate_Mixed(t *testing.T) {
	results := map[string][]model.StanceAssessment{
		"c1": {assessment("c1", model.StanceSupports, 0.6)},
		"c2": {assessment("c2", model.StanceRefutes, 0.8)},
	}
	v := Aggregate([]string{"c1", "c2"}, results)

	assert.Equal(t, model.StanceMixed, v.Label)
	assert.InDelta(t, 0.7, v.Confidence, 1e-9)
	assert.Equal(t, 1, v.Details.LabelDistribution[model.StanceSupports])
	assert.Equal(t, 1, v.Details.LabelDistribution[model.StanceRefutes])
}

func TestAggregate_NeutralCounts(t *testing.T) {
	results := map[string][]model.StanceAssessment{
		"c1": {assessment("c1", model.StanceNeutral, 0.5)},
	}
	v := Aggregate([]string{"c1"}, results)
	assert.Equal(t, model.StanceNeutral, v.Label)
	assert.InDelta(t, 0.5, v.Confidence, 1e-9)
}

func TestAggregate_IgnoresClaimsOutsideOrder(t *testing.T) {
	results := map[string][]model.StanceAssessment{
		"c1":    {assessment("c1", model.StanceSupports, 0.6)},
		"stray": {assessment("stray", model.StanceRefutes, 0.9)},
	}
	v := Aggregate([]string{"c1"}, results)
	assert.Equal(t, model.StanceSupports, v.Label)
}

func TestAggregate_Deterministic(t *testing.T) {
	results := map[string][]model.StanceAssessment{
		"a": {assessment("a", model.StanceSupports, 0.1), assessment("a", model.StanceRefutes, 0.3)},
		"b": {assessment("b", model.StanceNeutral, 0.7)},
		"c": {assessment("c", model.StanceSupports, 0.9)},
	}
	order := []string{"a", "b", "c"}
	first := Aggregate(order, results)
	for range 20 {
		assert.Equal(t, first, Aggregate(order, results))
	}
}
