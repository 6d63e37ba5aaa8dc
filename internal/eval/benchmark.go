package eval

import (
	"context"

	"github.com/ppiankov/factscope/internal/model"
	"github.com/ppiankov/factscope/internal/worker"
)

// Record is the outcome of one sample
type Record struct {
	Text      string `json:"text"`
	TrueLabel string `json:"true_label"`
	Predicted string `json:"predicted"`
	Error     string `json:"error,omitempty"`
}

// Report summarizes a benchmark
type Report struct {
	Records    []Record `json:"records"`
	Accuracy   float64  `json:"accuracy"`
	MacroF1    float64  `json:"macro_f1"`
	FEVERScore float64  `json:"fever_score"`
	Failures   int      `json:"failures"`
}

// Benchmark verifies every sample and scores the verdicts. A run that fails
// or never starts counts as an unknown prediction.
func Benchmark(ctx context.Context, verifier worker.Verifier, samples []Sample, language string, concurrency int) Report {
	tasks := make([]model.VerificationTask, len(samples))
	for i, s := range samples {
		tasks[i] = model.VerificationTask{Text: s.Text, Language: language}
	}

	records := make([]Record, len(samples))
	for i, s := range samples {
		records[i] = Record{Text: s.Text, TrueLabel: s.Label, Predicted: string(model.StanceUnknown), Error: "not run"}
	}

	for _, br := range worker.NewBatchProcessor(verifier, concurrency).ProcessTasks(ctx, tasks) {
		rec := &records[br.Index]
		rec.Error = ""
		switch {
		case br.Error != nil:
			rec.Error = br.Error.Error()
		case br.Result != nil:
			rec.Predicted = string(br.Result.Verdict.Label)
		}
	}

	truth := make([]string, len(records))
	pred := make([]string, len(records))
	report := Report{Records: records}
	for i, r := range records {
		truth[i], pred[i] = r.TrueLabel, r.Predicted
		if r.Error != "" {
			report.Failures++
		}
	}
	report.Accuracy = Accuracy(truth, pred)
	report.MacroF1 = MacroF1(truth, pred)
	report.FEVERScore = FEVERScore(truth, pred)
	return report
}
