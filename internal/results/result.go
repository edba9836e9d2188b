// Package results records training outcomes and serves the metrics dashboard.
// A result row and the predictions backfilled onto image rows are written in
// a single transaction per training run.
package results

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/veritas/internal/images"
)

// Success thresholds applied to the latest result.
const (
	TargetF1     = 0.90
	TargetAUCROC = 0.95
)

// PredictionBatchSize bounds the number of image rows updated per statement.
const PredictionBatchSize = 50

// ConfusionMatrix holds [[TN, FP], [FN, TP]] with "fake" as the positive class.
// Rows are actual labels and columns are predicted labels.
type ConfusionMatrix [2][2]int

// Validate reports an error when any cell is negative.
func (m ConfusionMatrix) Validate() error {
	for i := range m {
		for j := range m[i] {
			if m[i][j] < 0 {
				return fmt.Errorf("confusion matrix cell [%d][%d] is negative", i, j)
			}
		}
	}
	return nil
}

// Metrics are the scalar scores produced by a training run.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	AUCROC    float64 `json:"auc_roc"`
}

// Result is a stored training result for one split ratio.
type Result struct {
	ID uuid.UUID `json:"id"`
	Metrics
	ConfusionMatrix *ConfusionMatrix `json:"confusion_matrix"`
	SplitRatio      int              `json:"split_ratio"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Prediction is one per-image classifier output.
type Prediction struct {
	Filename   string       `json:"filename"`
	Prediction images.Class `json:"prediction"`
	Confidence float64      `json:"confidence"`
}

// RecordCommand carries a completed training run to persist.
type RecordCommand struct {
	SplitRatio      int
	Metrics         Metrics
	ConfusionMatrix *ConfusionMatrix
	Predictions     []Prediction
}

// Recorded reports what a Record call wrote.
type Recorded struct {
	Result  *Result `json:"result"`
	Updated int     `json:"updated"`
}

// Best is the highest value of a metric and the ratio that achieved it.
type Best struct {
	Value      float64 `json:"value"`
	SplitRatio int     `json:"split_ratio"`
}

// Criteria reports whether the latest result meets the success thresholds.
type Criteria struct {
	F1Target     float64 `json:"f1_target"`
	AUCROCTarget float64 `json:"auc_roc_target"`
	F1Met        bool    `json:"f1_met"`
	AUCROCMet    bool    `json:"auc_roc_met"`
}

// Summary is the dashboard view across every split ratio.
type Summary struct {
	TotalModels  int      `json:"total_models"`
	TotalImages  int      `json:"total_images"`
	BestAccuracy *Best    `json:"best_accuracy"`
	BestF1       *Best    `json:"best_f1"`
	BestAUCROC   *Best    `json:"best_auc_roc"`
	Latest       *Result  `json:"latest"`
	Criteria     Criteria `json:"criteria"`
}

// EvaluateCriteria compares r against the success thresholds. A nil result meets none.
func EvaluateCriteria(r *Result) Criteria {
	c := Criteria{
		F1Target:     TargetF1,
		AUCROCTarget: TargetAUCROC,
	}
	if r == nil {
		return c
	}
	c.F1Met = r.F1Score >= TargetF1
	c.AUCROCMet = r.AUCROC >= TargetAUCROC
	return c
}
