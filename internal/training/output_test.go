package training_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/internal/results"
	"github.com/JaimeStill/veritas/internal/training"
)

func TestParseOutput(t *testing.T) {
	stdout := "\x1b[32mEpoch 10/10\x1b[0m loss=0.12\n" +
		`{"accuracy": 0.93, "precision": 0.91, "recall": 0.95, "f1_score": 0.93, "auc_roc": 0.97,` +
		` "confusion_matrix": [[45, 5], [2, 48]],` +
		` "predictions": [{"filename": "fake_img_01.jpg", "prediction": "fake", "confidence": 0.98}]}` +
		"\ndone\n"

	out, err := training.ParseOutput(stdout)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := results.Metrics{Accuracy: 0.93, Precision: 0.91, Recall: 0.95, F1Score: 0.93, AUCROC: 0.97}
	if out.Metrics != want {
		t.Errorf("metrics = %+v, want %+v", out.Metrics, want)
	}
	if out.ConfusionMatrix == nil || *out.ConfusionMatrix != (results.ConfusionMatrix{{45, 5}, {2, 48}}) {
		t.Errorf("confusion matrix = %v", out.ConfusionMatrix)
	}
	if len(out.Predictions) != 1 {
		t.Fatalf("predictions = %d, want 1", len(out.Predictions))
	}
	p := out.Predictions[0]
	if p.Filename != "fake_img_01.jpg" || p.Prediction != images.ClassFake || p.Confidence != 0.98 {
		t.Errorf("prediction = %+v", p)
	}
}

func TestParseOutputDefaults(t *testing.T) {
	out, err := training.ParseOutput(`{"accuracy": 0.5}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.Metrics.F1Score != 0 || out.Metrics.AUCROC != 0 {
		t.Errorf("absent metrics not zero: %+v", out.Metrics)
	}
	if out.ConfusionMatrix != nil {
		t.Errorf("confusion matrix = %v, want nil", out.ConfusionMatrix)
	}
	if out.Predictions == nil || len(out.Predictions) != 0 {
		t.Errorf("predictions = %v, want empty", out.Predictions)
	}
}

func TestParseOutputDropsInvalidPredictions(t *testing.T) {
	stdout := `{"predictions": [
		{"filename": "real_a.jpg", "prediction": "real", "confidence": 0.7},
		{"filename": "real_b.jpg", "prediction": "real"},
		{"prediction": "fake", "confidence": 0.9},
		{"filename": "real_c.jpg", "prediction": "unsure", "confidence": 0.5},
		{"filename": "real_d.jpg", "prediction": "fake", "confidence": 1.5},
		{"filename": "fake_e.jpg", "prediction": "fake", "confidence": 0}
	]}`

	out, err := training.ParseOutput(stdout)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(out.Predictions) != 2 {
		t.Errorf("kept = %d, want 2", len(out.Predictions))
	}
	if out.Dropped != 4 {
		t.Errorf("dropped = %d, want 4", out.Dropped)
	}
}

func TestParseOutputErrors(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		want   error
	}{
		{"no object", "Traceback (most recent call last):\n  boom", training.ErrMalformedOutput},
		{"empty", "", training.ErrMalformedOutput},
		{"invalid json", `{"accuracy": }`, training.ErrMalformedOutput},
		{"reversed braces", "} nothing {", training.ErrMalformedOutput},
		{"matrix not 2x2", `{"confusion_matrix": [[1, 2, 3], [4, 5, 6]]}`, training.ErrMalformedOutput},
		{"matrix negative", `{"confusion_matrix": [[1, -2], [3, 4]]}`, training.ErrMalformedOutput},
		{"reported string", `{"error": "CUDA out of memory"}`, training.ErrTrainerReported},
		{"reported object", `{"error": {"code": 2}}`, training.ErrTrainerReported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := training.ParseOutput(tt.stdout)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseOutputIgnoresEmptyError(t *testing.T) {
	for _, stdout := range []string{`{"accuracy": 0.8, "error": ""}`, `{"accuracy": 0.8, "error": null}`} {
		out, err := training.ParseOutput(stdout)
		if err != nil {
			t.Errorf("%s: unexpected error %v", stdout, err)
			continue
		}
		if out.Metrics.Accuracy != 0.8 {
			t.Errorf("%s: accuracy = %v", stdout, out.Metrics.Accuracy)
		}
	}
}
