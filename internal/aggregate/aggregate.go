// Package aggregate combines per-claim stance assessments into one verdict.
package aggregate

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/ppiankov/factscope/internal/model"
)

// Aggregate flattens the assessments in claim order, ignores unknown labels
// and derives the overall verdict. A single distinct label wins outright;
// two or more distinct labels give mixed. Confidence is the mean of the
// counted assessments.
func Aggregate(order []string, results map[string][]model.StanceAssessment) model.Verdict {
	var confidences []float64
	distribution := make(map[model.StanceLabel]int)
	var first model.StanceLabel

	for _, claimID := range order {
		for _, a := range results[claimID] {
			if a.Label == model.StanceUnknown {
				continue
			}
			if len(confidences) == 0 {
				first = a.Label
			}
			distribution[a.Label]++
			confidences = append(confidences, a.Confidence)
		}
	}

	if len(confidences) == 0 {
		return model.UnknownVerdict()
	}

	label := first
	if len(distribution) > 1 {
		label = model.StanceMixed
	}

	mean := stat.Mean(confidences, nil)
	return model.Verdict{
		Label:      label,
		Confidence: mean,
		Details: model.VerdictDetails{
			LabelDistribution: distribution,
			AvgConfidence:     model.Float(mean),
			Rationale:         rationale(label, distribution, len(confidences)),
		},
	}
}

func rationale(label model.StanceLabel, distribution map[model.StanceLabel]int, total int) string {
	if label == model.StanceMixed {
		return fmt.Sprintf("%d assessments disagree (%d supports, %d refutes, %d neutral)",
			total,
			distribution[model.StanceSupports],
			distribution[model.StanceRefutes],
			distribution[model.StanceNeutral])
	}
	return fmt.Sprintf("all %d assessments are %s", total, label)
}
