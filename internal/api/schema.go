package api

import "github.com/ppiankov/factscope/internal/model"

// VerificationInput is the text or URL to verify
type VerificationInput struct {
	Text     string `json:"text"`
	URL      string `json:"url"`
	Language string `json:"language"`
}

// Task converts the input into a verification task
func (in VerificationInput) Task() model.VerificationTask {
	return model.VerificationTask{Text: in.Text, URL: in.URL, Language: in.Language}
}

// VerificationRequest is the POST /verify body
type VerificationRequest struct {
	Input VerificationInput `json:"input"`
}

// EvidenceView is one evidence item with the stance it received
type EvidenceView struct {
	Source     string             `json:"source"`
	Title      string             `json:"title"`
	URL        string             `json:"url"`
	Snippet    string             `json:"snippet"`
	Stance     *model.StanceLabel `json:"stance"`
	Confidence *float64           `json:"confidence"`
}

// ClaimView is one claim with its annotated evidence
type ClaimView struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Stance     model.StanceLabel `json:"stance"`
	Confidence *float64          `json:"confidence"`
	Evidence   []EvidenceView    `json:"evidence"`
}

// VerdictView is the overall verdict
type VerdictView struct {
	Label      model.StanceLabel `json:"label"`
	Confidence float64           `json:"confidence"`
}

// VerificationResponse is the POST /verify answer
type VerificationResponse struct {
	Verdict VerdictView `json:"verdict"`
	Summary string      `json:"summary"`
	Claims  []ClaimView `json:"claims"`
}

// ErrorResponse is returned with 4xx and 5xx statuses
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewVerificationResponse maps a run result onto the response body. Each
// evidence item carries the stance assessed for its URL, if any.
func NewVerificationResponse(r *model.Result) VerificationResponse {
	resp := VerificationResponse{
		Verdict: VerdictView{Label: r.Verdict.Label, Confidence: r.Verdict.Confidence},
		Summary: r.Report,
		Claims:  make([]ClaimView, 0, len(r.Claims)),
	}

	for _, c := range r.Claims {
		view := ClaimView{
			ID:         c.ID,
			Text:       c.Text,
			Stance:     c.Stance,
			Confidence: c.Confidence,
			Evidence:   make([]EvidenceView, 0, len(c.Evidence)),
		}
		for _, ev := range c.Evidence {
			item := EvidenceView{
				Source:  ev.Source,
				Title:   ev.Title,
				URL:     ev.URL,
				Snippet: ev.Snippet,
			}
			if a, ok := r.AssessmentFor(c.ID, ev.URL); ok {
				label, confidence := a.Label, a.Confidence
				item.Stance, item.Confidence = &label, &confidence
			}
			view.Evidence = append(view.Evidence, item)
		}
		resp.Claims = append(resp.Claims, view)
	}
	return resp
}
