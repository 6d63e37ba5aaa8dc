package eval

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/factscope/internal/model"
)

// Sample is one labelled claim
type Sample struct {
	Text  string
	Label string
}

// DatasetOptions selects the columns and size of a CSV dataset
type DatasetOptions struct {
	TextColumn  string
	LabelColumn string
	Limit       int // 0 reads every row
}

// DefaultDatasetOptions matches FEVER-style exports
func DefaultDatasetOptions() DatasetOptions {
	return DatasetOptions{TextColumn: "claim", LabelColumn: "label", Limit: 50}
}

// LoadCSV reads labelled samples from a CSV file with a header row
func LoadCSV(path string, opts DatasetOptions) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open dataset %s", path)
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f, opts)
}

// ReadCSV reads labelled samples from CSV data with a header row. Labels are
// normalized onto the stance label set; rows with empty text are skipped.
func ReadCSV(r io.Reader, opts DatasetOptions) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read header")
	}
	textIdx := slices.Index(header, opts.TextColumn)
	labelIdx := slices.Index(header, opts.LabelColumn)
	if textIdx < 0 {
		return nil, eris.Errorf("column %q not found", opts.TextColumn)
	}
	if labelIdx < 0 {
		return nil, eris.Errorf("column %q not found", opts.LabelColumn)
	}

	var samples []Sample
	for opts.Limit <= 0 || len(samples) < opts.Limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read row")
		}
		if textIdx >= len(record) || labelIdx >= len(record) {
			continue
		}
		text := strings.TrimSpace(record[textIdx])
		if text == "" {
			continue
		}
		samples = append(samples, Sample{Text: text, Label: NormalizeLabel(record[labelIdx])})
	}
	return samples, nil
}

// NormalizeLabel maps dataset labels (SUPPORTS, REFUTES, NOT ENOUGH INFO,
// true/false, ...) onto stance labels
func NormalizeLabel(raw string) string {
	l := strings.ToLower(strings.TrimSpace(raw))
	switch l {
	case "supports", "supported", "true", "support":
		return string(model.StanceSupports)
	case "refutes", "refuted", "false", "refute":
		return string(model.StanceRefutes)
	case "not enough info", "nei", "unknown", "":
		return string(model.StanceUnknown)
	}
	return l
}
