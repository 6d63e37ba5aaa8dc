package model

import (
	"maps"
	"slices"
)

// Claim is an atomic, checkable factual statement extracted from the input.
// Later stages never mutate a claim in place: they derive a new value through
// the With* methods, and the previous value is dropped.
type Claim struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Language   string         `json:"language"`
	Entities   []string       `json:"entities"`
	Queries    []string       `json:"queries"`
	Evidence   []Evidence     `json:"evidence"`
	Stance     StanceLabel    `json:"stance"`
	Confidence *float64       `json:"confidence"` // nil until a stance was assessed
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewClaim creates a claim with the default unknown stance
func NewClaim(id, text, language string, entities []string) Claim {
	if entities == nil {
		entities = []string{}
	}
	return Claim{
		ID:       id,
		Text:     text,
		Language: language,
		Entities: slices.Clone(entities),
		Queries:  []string{},
		Evidence: []Evidence{},
		Stance:   StanceUnknown,
	}
}

// clone copies every reference field so the result shares nothing with c
func (c Claim) clone() Claim {
	out := c
	out.Entities = slices.Clone(c.Entities)
	out.Queries = slices.Clone(c.Queries)
	out.Evidence = CloneEvidence(c.Evidence)
	if c.Confidence != nil {
		v := *c.Confidence
		out.Confidence = &v
	}
	if c.Metadata != nil {
		out.Metadata = maps.Clone(c.Metadata)
	}
	return out
}

// WithQueries returns a copy of the claim carrying the planned search queries
func (c Claim) WithQueries(queries []string) Claim {
	out := c.clone()
	out.Queries = slices.Clone(queries)
	if out.Queries == nil {
		out.Queries = []string{}
	}
	return out
}

// WithEvidence returns a copy of the claim with its evidence list replaced
func (c Claim) WithEvidence(evidence []Evidence) Claim {
	out := c.clone()
	out.Evidence = CloneEvidence(evidence)
	if out.Evidence == nil {
		out.Evidence = []Evidence{}
	}
	return out
}

// WithStance returns a copy of the claim with its representative stance
func (c Claim) WithStance(label StanceLabel, confidence float64) Claim {
	out := c.clone()
	out.Stance = label
	out.Confidence = &confidence
	return out
}

// WithMetadata returns a copy of the claim with one metadata key set
func (c Claim) WithMetadata(key string, value any) Claim {
	out := c.clone()
	if out.Metadata == nil {
		out.Metadata = make(map[string]any)
	}
	out.Metadata[key] = value
	return out
}

// ClaimIDs returns the identifiers of claims in order
func ClaimIDs(claims []Claim) []string {
	ids := make([]string, len(claims))
	for i, c := range claims {
		ids[i] = c.ID
	}
	return ids
}
