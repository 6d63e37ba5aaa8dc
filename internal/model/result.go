package model

import "time"

// Result is everything one verification run produced
type Result struct {
	RunID    string                        `json:"run_id"`
	Task     VerificationTask              `json:"task"`
	Language string                        `json:"language"`
	Claims   []Claim                       `json:"claims"` // extraction order
	Plan     map[string][]string           `json:"plan"`
	Evidence map[string][]Evidence         `json:"evidence"`
	Stances  map[string][]StanceAssessment `json:"stances"`
	Verdict  Verdict                       `json:"verdict"`
	Report   string                        `json:"report"`
	Metadata RunMetadata                   `json:"metadata"`
}

// RunMetadata records how a run went
type RunMetadata struct {
	StartedAt  time.Time                `json:"started_at"`
	FinishedAt time.Time                `json:"finished_at"`
	TraceID    string                   `json:"trace_id,omitempty"`
	SourceURL  string                   `json:"source_url,omitempty"`
	Title      string                   `json:"title,omitempty"`
	Stages     map[string]time.Duration `json:"stages"`
	Fallbacks  []string                 `json:"fallbacks,omitempty"` // components that degraded
}

// AssessmentFor returns the assessment a claim's evidence item received, matched by URL
func (r *Result) AssessmentFor(claimID, url string) (StanceAssessment, bool) {
	if url == "" {
		return StanceAssessment{}, false
	}
	var found StanceAssessment
	ok := false
	for _, a := range r.Stances[claimID] {
		if a.Evidence.URL == url {
			found, ok = a, true
		}
	}
	return found, ok
}
