package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClaimDefaults(t *testing.T) {
	c := NewClaim("claim-1", "The Eiffel Tower is in Paris.", "en", nil)

	assert.Equal(t, StanceUnknown, c.Stance)
	assert.Nil(t, c.Confidence)
	assert.NotNil(t, c.Entities)
	assert.Empty(t, c.Queries)
	assert.Empty(t, c.Evidence)
}

func TestClaimWithMethodsDoNotAlias(t *testing.T) {
	entities := []string{"Eiffel Tower"}
	c := NewClaim("c1", "text", "en", entities)
	entities[0] = "changed"
	assert.Equal(t, "Eiffel Tower", c.Entities[0])

	queries := []string{"q1", "q2"}
	withQ := c.WithQueries(queries)
	queries[0] = "mutated"
	assert.Equal(t, []string{"q1", "q2"}, withQ.Queries)
	assert.Empty(t, c.Queries, "original claim must be untouched")

	ev := []Evidence{{URL: "https://a", Score: Float(0.5), Metadata: map[string]any{"k": "v"}}}
	withEv := withQ.WithEvidence(ev)
	*ev[0].Score = 9
	ev[0].Metadata["k"] = "x"
	assert.Equal(t, 0.5, withEv.Evidence[0].ScoreOrZero())
	assert.Equal(t, "v", withEv.Evidence[0].Metadata["k"])

	withS := withEv.WithStance(StanceSupports, 0.8)
	require.NotNil(t, withS.Confidence)
	assert.Equal(t, 0.8, *withS.Confidence)
	assert.Nil(t, withEv.Confidence)

	withM := withS.WithMetadata("sentence_index", 0)
	assert.Equal(t, 0, withM.Metadata["sentence_index"])
	assert.Nil(t, withS.Metadata)
	assert.Equal(t, "en", withM.Language)
}

func TestClaimIDs(t *testing.T) {
	claims := []Claim{NewClaim("a", "", "", nil), NewClaim("b", "", "", nil)}
	assert.Equal(t, []string{"a", "b"}, ClaimIDs(claims))
}

func TestVerificationTaskValidate(t *testing.T) {
	tests := []struct {
		name string
		task VerificationTask
		want error
	}{
		{name: "text", task: VerificationTask{Text: "hello"}},
		{name: "url", task: VerificationTask{URL: "https://example.com"}},
		{name: "empty", task: VerificationTask{}, want: ErrEmptyTask},
		{name: "blank", task: VerificationTask{Text: "   "}, want: ErrEmptyTask},
		{name: "both", task: VerificationTask{Text: "x", URL: "https://example.com"}, want: ErrAmbiguousTask},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, eris.Is(err, tt.want))
		})
	}
}

func TestLanguageOrAuto(t *testing.T) {
	assert.Equal(t, LanguageAuto, VerificationTask{}.LanguageOrAuto())
	assert.Equal(t, "en", VerificationTask{Language: " EN "}.LanguageOrAuto())
}

func TestStanceLabelValid(t *testing.T) {
	for _, l := range Labels() {
		assert.True(t, l.Valid(), l)
	}
	assert.False(t, StanceLabel("maybe").Valid())
}

func TestAssessmentFor(t *testing.T) {
	r := &Result{Stances: map[string][]StanceAssessment{
		"c1": {
			{ClaimID: "c1", Evidence: Evidence{URL: "https://a"}, Label: StanceSupports, Confidence: 0.9},
			{ClaimID: "c1", Evidence: Evidence{URL: "https://b"}, Label: StanceRefutes, Confidence: 0.4},
		},
	}}

	a, ok := r.AssessmentFor("c1", "https://b")
	require.True(t, ok)
	assert.Equal(t, StanceRefutes, a.Label)

	_, ok = r.AssessmentFor("c1", "")
	assert.False(t, ok)
	_, ok = r.AssessmentFor("c2", "https://a")
	assert.False(t, ok)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.LLM.Provider)
	assert.False(t, cfg.Stance.Enabled)
	assert.Equal(t, 10, cfg.Retrieval.MaxDocuments)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 20, cfg.Retrieval.CallTimeout)
}
