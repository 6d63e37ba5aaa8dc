package pipeline

import (
	"github.com/ppiankov/factscope/internal/model"
)

// State is the working state of one run. Each stage reads what earlier
// stages produced and writes its own fields; a State is never shared
// between runs.
type State struct {
	Task     model.VerificationTask
	Text     string
	Language string
	Claims   []model.Claim
	Plan     map[string][]string
	Evidence map[string][]model.Evidence
	Stances  map[string][]model.StanceAssessment
	Verdict  model.Verdict
	Report   string
	Metadata model.RunMetadata
}

func newState(task model.VerificationTask) *State {
	return &State{
		Task:     task,
		Language: task.LanguageOrAuto(),
		Claims:   []model.Claim{},
		Plan:     map[string][]string{},
		Evidence: map[string][]model.Evidence{},
		Stances:  map[string][]model.StanceAssessment{},
		Verdict:  model.UnknownVerdict(),
	}
}

// result copies the state into the value returned to callers
func (s *State) result(runID string) *model.Result {
	return &model.Result{
		RunID:    runID,
		Task:     s.Task,
		Language: s.Language,
		Claims:   s.Claims,
		Plan:     s.Plan,
		Evidence: s.Evidence,
		Stances:  s.Stances,
		Verdict:  s.Verdict,
		Report:   s.Report,
		Metadata: s.Metadata,
	}
}
