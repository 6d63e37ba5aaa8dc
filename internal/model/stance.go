package model

// StanceLabel is the judgment of how evidence relates to a claim
type StanceLabel string

const (
	StanceSupports StanceLabel = "supports" // Evidence backs the claim
	StanceRefutes  StanceLabel = "refutes"  // Evidence contradicts the claim
	StanceNeutral  StanceLabel = "neutral"  // Evidence is related but takes no side
	StanceUnknown  StanceLabel = "unknown"  // No usable signal
	StanceMixed    StanceLabel = "mixed"    // Aggregate only: conflicting labels across evidence
)

// Labels lists every stance label in declaration order
func Labels() []StanceLabel {
	return []StanceLabel{StanceSupports, StanceRefutes, StanceNeutral, StanceUnknown, StanceMixed}
}

// Valid reports whether the label belongs to the closed label set
func (l StanceLabel) Valid() bool {
	switch l {
	case StanceSupports, StanceRefutes, StanceNeutral, StanceUnknown, StanceMixed:
		return true
	}
	return false
}

func (l StanceLabel) String() string {
	return string(l)
}

// StanceAssessment is the judgment of one evidence item against one claim
type StanceAssessment struct {
	ClaimID    string      `json:"claim_id"`
	Evidence   Evidence    `json:"evidence"`
	Label      StanceLabel `json:"label"`
	Confidence float64     `json:"confidence"`
	Rationale  string      `json:"rationale,omitempty"`
}
