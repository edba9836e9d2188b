package results_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/JaimeStill/veritas/internal/results"
)

func TestEvaluateCriteria(t *testing.T) {
	tests := []struct {
		name   string
		result *results.Result
		f1Met  bool
		aucMet bool
	}{
		{"no result", nil, false, false},
		{"both met", &results.Result{Metrics: results.Metrics{F1Score: 0.92, AUCROC: 0.97}}, true, true},
		{"exact thresholds", &results.Result{Metrics: results.Metrics{F1Score: 0.90, AUCROC: 0.95}}, true, true},
		{"f1 only", &results.Result{Metrics: results.Metrics{F1Score: 0.91, AUCROC: 0.94}}, true, false},
		{"neither", &results.Result{Metrics: results.Metrics{F1Score: 0.5, AUCROC: 0.5}}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := results.EvaluateCriteria(tt.result)
			if c.F1Met != tt.f1Met || c.AUCROCMet != tt.aucMet {
				t.Errorf("criteria = %+v, want f1 %v auc %v", c, tt.f1Met, tt.aucMet)
			}
			if c.F1Target != results.TargetF1 || c.AUCROCTarget != results.TargetAUCROC {
				t.Errorf("targets = %v/%v", c.F1Target, c.AUCROCTarget)
			}
		})
	}
}

func TestConfusionMatrixValidate(t *testing.T) {
	if err := (results.ConfusionMatrix{{40, 10}, {5, 45}}).Validate(); err != nil {
		t.Errorf("valid matrix rejected: %v", err)
	}
	if err := (results.ConfusionMatrix{{0, 0}, {0, 0}}).Validate(); err != nil {
		t.Errorf("zero matrix rejected: %v", err)
	}
	if err := (results.ConfusionMatrix{{40, 10}, {-1, 45}}).Validate(); err == nil {
		t.Error("negative cell accepted")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{results.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("latest: %w", results.ErrNotFound), http.StatusNotFound},
		{results.ErrDuplicate, http.StatusConflict},
		{results.ErrInvalidSplitRatio, http.StatusBadRequest},
		{results.ErrInvalidMatrix, http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := results.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
