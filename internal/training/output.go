package training

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/internal/results"
	"github.com/JaimeStill/veritas/pkg/formatting"
)

type rawPrediction struct {
	Filename   *string  `json:"filename"`
	Prediction *string  `json:"prediction"`
	Confidence *float64 `json:"confidence"`
}

type rawOutput struct {
	Accuracy        float64          `json:"accuracy"`
	Precision       float64          `json:"precision"`
	Recall          float64          `json:"recall"`
	F1Score         float64          `json:"f1_score"`
	AUCROC          float64          `json:"auc_roc"`
	ConfusionMatrix [][]int          `json:"confusion_matrix"`
	Predictions     []rawPrediction  `json:"predictions"`
	Error           *json.RawMessage `json:"error"`
}

// ParseOutput extracts the result object from trainer stdout. Color escape
// sequences are stripped and the object spans the first '{' to the last '}'.
// A non-empty "error" field fails the run with ErrTrainerReported. An
// "error" that is null or "" is deliberately treated as absent.
// Absent metrics are 0. Prediction entries missing a field, or carrying an
// unknown label or a confidence outside [0,1], are dropped and counted.
func ParseOutput(stdout string) (*Outcome, error) {
	raw, err := formatting.ParseObject[rawOutput](stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if raw.Error != nil {
		if msg := reportedMessage(*raw.Error); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrTrainerReported, msg)
		}
	}

	out := &Outcome{
		Metrics: results.Metrics{
			Accuracy:  raw.Accuracy,
			Precision: raw.Precision,
			Recall:    raw.Recall,
			F1Score:   raw.F1Score,
			AUCROC:    raw.AUCROC,
		},
	}

	if raw.ConfusionMatrix != nil {
		m, err := toMatrix(raw.ConfusionMatrix)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		out.ConfusionMatrix = m
	}

	out.Predictions = make([]results.Prediction, 0, len(raw.Predictions))
	for _, p := range raw.Predictions {
		pred, ok := toPrediction(p)
		if !ok {
			out.Dropped++
			continue
		}
		out.Predictions = append(out.Predictions, pred)
	}

	return out, nil
}

func toMatrix(rows [][]int) (*results.ConfusionMatrix, error) {
	if len(rows) != 2 || len(rows[0]) != 2 || len(rows[1]) != 2 {
		return nil, errors.New("confusion matrix must be 2x2")
	}

	m := results.ConfusionMatrix{
		{rows[0][0], rows[0][1]},
		{rows[1][0], rows[1][1]},
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func toPrediction(p rawPrediction) (results.Prediction, bool) {
	if p.Filename == nil || p.Prediction == nil || p.Confidence == nil {
		return results.Prediction{}, false
	}

	class := images.Class(*p.Prediction)
	if !class.Valid() || *p.Confidence < 0 || *p.Confidence > 1 {
		return results.Prediction{}, false
	}

	return results.Prediction{
		Filename:   *p.Filename,
		Prediction: class,
		Confidence: *p.Confidence,
	}, true
}

func reportedMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
