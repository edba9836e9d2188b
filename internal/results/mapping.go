package results

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/veritas/pkg/query"
	"github.com/JaimeStill/veritas/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "training_results", "r").
	Project("id", "ID").
	Project("accuracy", "Accuracy").
	Project("precision", "Precision").
	Project("recall", "Recall").
	Project("f1_score", "F1Score").
	Project("auc_roc", "AUCROC").
	Project("confusion_matrix", "ConfusionMatrix").
	Project("split_ratio", "SplitRatio").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const insertResult = `
	INSERT INTO training_results(accuracy, precision, recall, f1_score, auc_roc, confusion_matrix, split_ratio)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, accuracy, precision, recall, f1_score, auc_roc, confusion_matrix, split_ratio, created_at, updated_at`

// Filters contains optional filtering criteria for result queries.
type Filters struct {
	SplitRatio *int `json:"split_ratio,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereEquals("SplitRatio", f.SplitRatio)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if sr := values.Get("split_ratio"); sr != "" {
		if v, err := strconv.Atoi(sr); err == nil {
			f.SplitRatio = &v
		}
	}

	return f
}

func scanResult(s repository.Scanner) (Result, error) {
	var r Result
	var matrixRaw []byte

	err := s.Scan(
		&r.ID,
		&r.Accuracy,
		&r.Precision,
		&r.Recall,
		&r.F1Score,
		&r.AUCROC,
		&matrixRaw,
		&r.SplitRatio,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return r, err
	}

	if matrixRaw != nil {
		var m ConfusionMatrix
		if err := json.Unmarshal(matrixRaw, &m); err != nil {
			return r, fmt.Errorf("unmarshal confusion matrix: %w", err)
		}
		r.ConfusionMatrix = &m
	}

	return r, nil
}

func marshalMatrix(m *ConfusionMatrix) (any, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// buildPredictionUpdate returns one UPDATE applying every prediction in batch
// to image rows matched by filename within splitRatio.
func buildPredictionUpdate(splitRatio int, batch []Prediction) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(batch)*3+1)

	sb.WriteString("UPDATE images AS i SET prediction = v.prediction, confidence = v.confidence, updated_at = NOW() FROM (VALUES ")

	param := 1
	for idx, p := range batch {
		if idx > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d::text, $%d::text, $%d::double precision)", param, param+1, param+2)
		param += 3
		args = append(args, p.Filename, string(p.Prediction), p.Confidence)
	}

	fmt.Fprintf(
		&sb,
		") AS v(filename, prediction, confidence) WHERE i.filename = v.filename AND i.split_ratio = $%d",
		param,
	)
	args = append(args, splitRatio)

	return sb.String(), args
}
