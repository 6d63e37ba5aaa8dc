package model

// RationaleInsufficientEvidence is reported when no assessment carried a signal
const RationaleInsufficientEvidence = "insufficient evidence"

// Verdict is the aggregate stance for an entire verification run
type Verdict struct {
	Label      StanceLabel    `json:"label"`
	Confidence float64        `json:"confidence"`
	Details    VerdictDetails `json:"details"`
}

// VerdictDetails explains how the verdict was reached
type VerdictDetails struct {
	LabelDistribution map[StanceLabel]int `json:"label_distribution,omitempty"`
	AvgConfidence     *float64            `json:"avg_confidence,omitempty"`
	Rationale         string              `json:"rationale,omitempty"`
}

// UnknownVerdict is the verdict for a run that produced no usable signal
func UnknownVerdict() Verdict {
	return Verdict{
		Label:      StanceUnknown,
		Confidence: 0,
		Details:    VerdictDetails{Rationale: RationaleInsufficientEvidence},
	}
}
