package model

import (
	"maps"
	"time"
)

// Evidence is a titled, sourced snippet retrieved for a claim.
// The URL is its natural key: two items with the same non-empty URL are the same evidence.
type Evidence struct {
	Source      string         `json:"source"` // Provider that produced it (wikipedia, tavily, ...)
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	Snippet     string         `json:"snippet"`
	Score       *float64       `json:"score,omitempty"` // Relevance score from the origin, if any
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ScoreOrZero returns the origin score, or 0 when the provider did not supply one
func (e Evidence) ScoreOrZero() float64 {
	if e.Score == nil {
		return 0
	}
	return *e.Score
}

// Clone returns a deep copy so callers cannot alias the metadata map or pointers
func (e Evidence) Clone() Evidence {
	out := e
	if e.Score != nil {
		s := *e.Score
		out.Score = &s
	}
	if e.PublishedAt != nil {
		t := *e.PublishedAt
		out.PublishedAt = &t
	}
	if e.Metadata != nil {
		out.Metadata = maps.Clone(e.Metadata)
	}
	return out
}

// CloneEvidence deep-copies an evidence list
func CloneEvidence(in []Evidence) []Evidence {
	if in == nil {
		return nil
	}
	out := make([]Evidence, len(in))
	for i, ev := range in {
		out[i] = ev.Clone()
	}
	return out
}

// Float returns a pointer to v, for optional score and confidence fields
func Float(v float64) *float64 {
	return &v
}
