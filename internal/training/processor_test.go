package training_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/veritas/internal/images"
	"github.com/JaimeStill/veritas/internal/results"
	"github.com/JaimeStill/veritas/internal/training"
	"github.com/JaimeStill/veritas/pkg/pagination"
)

type fakeBackend struct {
	outcome *training.Outcome
	err     error
	ratios  []int
}

func (b *fakeBackend) Train(_ context.Context, splitRatio int) (*training.Outcome, error) {
	b.ratios = append(b.ratios, splitRatio)
	return b.outcome, b.err
}

type fakeResults struct {
	recorded []results.RecordCommand
	err      error
}

func (f *fakeResults) Handler() *results.Handler { return nil }

func (f *fakeResults) List(context.Context, pagination.PageRequest, results.Filters) (*pagination.PageResult[results.Result], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeResults) Latest(context.Context, *int) (*results.Result, error) {
	return nil, results.ErrNotFound
}

func (f *fakeResults) LatestByRatio(context.Context) (map[int]*results.Result, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeResults) Summary(context.Context) (*results.Summary, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeResults) Record(_ context.Context, cmd results.RecordCommand) (*results.Recorded, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.recorded = append(f.recorded, cmd)
	return &results.Recorded{
		Result:  &results.Result{ID: uuid.New(), Metrics: cmd.Metrics, SplitRatio: cmd.SplitRatio},
		Updated: len(cmd.Predictions),
	}, nil
}

func newProcessor(t *testing.T, backend training.Backend, res results.System) (*training.Processor, *training.Metrics) {
	t.Helper()
	m, err := training.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	return training.NewProcessor(backend, res, m, discardLogger()), m
}

func runTask(t *testing.T, ratio int) *asynq.Task {
	t.Helper()
	task, err := training.NewTask(ratio)
	if err != nil {
		t.Fatal(err)
	}
	return task
}

func TestProcessTaskRecordsOutcome(t *testing.T) {
	backend := &fakeBackend{outcome: &training.Outcome{
		Metrics: results.Metrics{Accuracy: 0.9, F1Score: 0.91, AUCROC: 0.96},
		Predictions: []results.Prediction{
			{Filename: "real_a.jpg", Prediction: images.ClassReal, Confidence: 0.8},
			{Filename: "fake_b.jpg", Prediction: images.ClassFake, Confidence: 0.7},
		},
		Dropped: 1,
	}}
	res := &fakeResults{}
	proc, m := newProcessor(t, backend, res)

	if err := proc.ProcessTask(context.Background(), runTask(t, 70)); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(backend.ratios) != 1 || backend.ratios[0] != 70 {
		t.Errorf("trained ratios = %v, want [70]", backend.ratios)
	}
	if len(res.recorded) != 1 {
		t.Fatalf("recorded = %d, want 1", len(res.recorded))
	}
	cmd := res.recorded[0]
	if cmd.SplitRatio != 70 || cmd.Metrics.F1Score != 0.91 || len(cmd.Predictions) != 2 {
		t.Errorf("record command = %+v", cmd)
	}

	if got := testutil.ToFloat64(m.Runs.WithLabelValues("70", "success")); got != 1 {
		t.Errorf("success runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PredictionsApplied); got != 2 {
		t.Errorf("predictions applied = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PredictionsDropped); got != 1 {
		t.Errorf("predictions dropped = %v, want 1", got)
	}
}

func TestProcessTaskFailures(t *testing.T) {
	tests := []struct {
		name      string
		trainErr  error
		recordErr error
		outcome   string
	}{
		{"trainer failed", training.ErrTrainerFailed, nil, "failed"},
		{"trainer timeout", training.ErrTrainerTimeout, nil, "timeout"},
		{"malformed output", training.ErrMalformedOutput, nil, "malformed"},
		{"trainer reported", training.ErrTrainerReported, nil, "reported"},
		{"record failed", nil, errors.New("tx aborted"), "record_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{err: tt.trainErr, outcome: &training.Outcome{}}
			if tt.trainErr != nil {
				backend.outcome = nil
			}
			res := &fakeResults{err: tt.recordErr}
			proc, m := newProcessor(t, backend, res)

			err := proc.ProcessTask(context.Background(), runTask(t, 90))
			if err == nil {
				t.Fatal("expected error")
			}
			if len(res.recorded) != 0 {
				t.Errorf("recorded %d results on failure", len(res.recorded))
			}
			if got := testutil.ToFloat64(m.Runs.WithLabelValues("90", tt.outcome)); got != 1 {
				t.Errorf("%s runs = %v, want 1", tt.outcome, got)
			}
		})
	}
}

func TestProcessTaskInvalidPayloadSkipsRetry(t *testing.T) {
	backend := &fakeBackend{}
	proc, _ := newProcessor(t, backend, &fakeResults{})

	err := proc.ProcessTask(context.Background(), asynq.NewTask(training.TaskTypeRun, []byte(`{"split_ratio": 55}`)))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("err = %v, want SkipRetry", err)
	}
	if len(backend.ratios) != 0 {
		t.Error("backend invoked for invalid payload")
	}
}

func TestNilMetrics(t *testing.T) {
	backend := &fakeBackend{outcome: &training.Outcome{}}
	proc := training.NewProcessor(backend, &fakeResults{}, nil, discardLogger())

	if err := proc.ProcessTask(context.Background(), runTask(t, 80)); err != nil {
		t.Fatalf("process: %v", err)
	}
}
