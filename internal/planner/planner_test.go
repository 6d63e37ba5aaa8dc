package planner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/factscope/internal/capability"
	"github.com/ppiankov/factscope/internal/llm"
	"github.com/ppiankov/factscope/internal/model"
)

// scriptedProvider answers per claim text found in the user prompt
type scriptedProvider struct {
	mu      sync.Mutex
	answers map[string]string
	fail    map[string]bool
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := req.Messages[len(req.Messages)-1].Content
	for text, failing := range s.fail {
		if failing && strings.Contains(user, "CLAIM: "+text) {
			return nil, errors.New("upstream unavailable")
		}
	}
	for text, answer := range s.answers {
		if strings.Contains(user, "CLAIM: "+text) {
			return &llm.ChatResponse{Content: answer}, nil
		}
	}
	return &llm.ChatResponse{Content: `{"queries": []}`}, nil
}

func TestFallback(t *testing.T) {
	claim := model.NewClaim("c1", "The Eiffel Tower is located in Paris.", "en", []string{"Eiffel Tower", "Paris"})

	got := Fallback(claim)
	assert.Equal(t, []string{
		"The Eiffel Tower is located in Paris.",
		"Eiffel Tower Paris",
		"verify The facts",
	}, got)
}

func TestFallback_ShortClaimAndDedupe(t *testing.T) {
	claim := model.NewClaim("c1", "Paris", "en", []string{"Paris"})
	assert.Equal(t, []string{"Paris"}, Fallback(claim))
}

func TestFallback_TruncatesRunes(t *testing.T) {
	text := strings.Repeat("é", 200)
	got := Fallback(model.NewClaim("c1", text, "fr", nil))
	require.NotEmpty(t, got)
	assert.Equal(t, 180, len([]rune(got[0])))
}

func TestPlan_UnavailableCapability(t *testing.T) {
	claims := []model.Claim{
		model.NewClaim("c1", "The Eiffel Tower is located in Paris.", "en", nil),
		model.NewClaim("c2", "Water boils at one hundred degrees.", "en", nil),
	}
	p := New(capability.Unavailable[llm.Provider]("disabled"))

	updated, plan, fallbacks := p.Plan(context.Background(), claims)
	assert.Equal(t, 2, fallbacks)
	require.Len(t, updated, 2)
	assert.Equal(t, "c1", updated[0].ID)
	assert.Equal(t, "c2", updated[1].ID)
	assert.Equal(t, plan["c1"], updated[0].Queries)
	assert.Empty(t, claims[0].Queries, "input claims are not mutated")
}

func TestPlan_PerClaimIsolation(t *testing.T) {
	provider := &scriptedProvider{
		answers: map[string]string{
			"Claim one is about planets.": `{"queries": [" planets ", "", "solar system", "orbit", "nasa", "kepler", "extra"]}`,
			"Claim three is empty.":       `{"queries": ["   "]}`,
		},
		fail: map[string]bool{"Claim two fails upstream.": true},
	}
	claims := []model.Claim{
		model.NewClaim("c1", "Claim one is about planets.", "en", nil),
		model.NewClaim("c2", "Claim two fails upstream.", "en", nil),
		model.NewClaim("c3", "Claim three is empty.", "en", nil),
	}
	p := New(capability.Available[llm.Provider](provider), WithWorkers(2))

	updated, plan, fallbacks := p.Plan(context.Background(), claims)
	assert.Equal(t, 2, fallbacks)

	assert.Equal(t, []string{"planets", "solar system", "orbit", "nasa", "kepler"}, plan["c1"])
	assert.Equal(t, Fallback(claims[1]), plan["c2"])
	assert.Equal(t, Fallback(claims[2]), plan["c3"])
	for i, c := range updated {
		assert.Equal(t, claims[i].ID, c.ID)
		assert.LessOrEqual(t, len(c.Queries), MaxQueries)
	}
}

func TestPlan_WithMaxQueries(t *testing.T) {
	provider := &scriptedProvider{answers: map[string]string{
		"A claim.": `{"queries": ["a", "b", "c"]}`,
	}}
	p := New(capability.Available[llm.Provider](provider), WithMaxQueries(2))

	_, plan, _ := p.Plan(context.Background(), []model.Claim{model.NewClaim("c1", "A claim.", "en", nil)})
	assert.Equal(t, []string{"a", "b"}, plan["c1"])
}

func TestPlan_Empty(t *testing.T) {
	p := New(capability.Unavailable[llm.Provider](""))
	updated, plan, fallbacks := p.Plan(context.Background(), nil)
	assert.Empty(t, updated)
	assert.Empty(t, plan)
	assert.Zero(t, fallbacks)
}
