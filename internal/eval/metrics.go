// Package eval scores the pipeline against labelled datasets.
package eval

import (
	"slices"

	"github.com/ppiankov/factscope/internal/model"
)

// Accuracy is the share of predictions equal to the truth
func Accuracy(truth, pred []string) float64 {
	n := min(len(truth), len(pred))
	if n == 0 {
		return 0
	}
	correct := 0
	for i := range n {
		if truth[i] == pred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

// MacroF1 is the unweighted mean of per-label F1 over every label seen in
// either list. A label with no true or predicted positives scores 0.
func MacroF1(truth, pred []string) float64 {
	n := min(len(truth), len(pred))
	if n == 0 {
		return 0
	}

	var labels []string
	for i := range n {
		for _, l := range []string{truth[i], pred[i]} {
			if !slices.Contains(labels, l) {
				labels = append(labels, l)
			}
		}
	}

	total := 0.0
	for _, label := range labels {
		tp, fp, fn := 0, 0, 0
		for i := range n {
			switch {
			case truth[i] == label && pred[i] == label:
				tp++
			case pred[i] == label:
				fp++
			case truth[i] == label:
				fn++
			}
		}
		if tp == 0 {
			continue
		}
		precision := float64(tp) / float64(tp+fp)
		recall := float64(tp) / float64(tp+fn)
		total += 2 * precision * recall / (precision + recall)
	}
	return total / float64(len(labels))
}

// FEVERScore counts correct predictions whose truth is not unknown, over
// all samples
func FEVERScore(truth, pred []string) float64 {
	n := min(len(truth), len(pred))
	if len(truth) == 0 {
		return 0
	}
	correct := 0
	for i := range n {
		if truth[i] == pred[i] && truth[i] != string(model.StanceUnknown) {
			correct++
		}
	}
	return float64(correct) / float64(len(truth))
}
