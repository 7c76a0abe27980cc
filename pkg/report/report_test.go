package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strokeml/pkg/dataset"
	"strokeml/pkg/experiment"
	"strokeml/pkg/model"
	"strokeml/pkg/tune"
)

func sampleResult() *experiment.RunResult {
	cv := &tune.Result{
		Family: "elasticnet",
		Candidates: []tune.CandidateResult{{
			Desc: "alpha=0.5 lambda=0.001",
			AUCs: []float64{0.81, 0.83, 0.85},
			Mean: 0.83,
			Std:  0.02,
		}},
	}
	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &experiment.RunResult{
		ID:         "run-1234",
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		DataPath:   "stroke.csv",
		Summary: &dataset.Summary{
			Rows:      100,
			LabelName: "stroke",
			Positive:  5,
			Negative:  95,
			Numeric: []dataset.NumericSummary{
				{Name: "age", N: 100, Mean: 43.2, Std: 22.6, Median: 45, Max: 82},
				{Name: "bmi", N: 96, Missing: 4, Mean: 28.9, Std: 7.8},
			},
			Categorical: []dataset.CategoricalSummary{
				{Name: "gender", Levels: []dataset.LevelCount{{Level: "Female", Count: 59}, {Level: "Male", Count: 41}}},
			},
			NumericNames: []string{"age", "bmi"},
			Correlation:  [][]float64{{1, 0.33}, {0.33, 1}},
		},
		Features:   []string{"age", "bmi", "gender=Female", "gender=Male"},
		TrainRows:  75,
		TestRows:   25,
		Families:   []experiment.FamilyResult{{Family: "elasticnet", CV: cv, TestAUC: 0.84}},
		BestFamily: "elasticnet",
		BestParams: "alpha=0.5 lambda=0.001",
		Confusion:  model.ConfusionMatrix{TP: 2, FP: 3, TN: 19, FN: 1},
	}
}

func TestWrite(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Write(&b, sampleResult()))
	out := b.String()

	assert.Contains(t, out, "# Stroke model benchmark")
	assert.Contains(t, out, "run-1234")
	assert.Contains(t, out, "## Model comparison")
	assert.Contains(t, out, "alpha=0.5 lambda=0.001")
	assert.Contains(t, out, "0.8300") // CV mean
	assert.Contains(t, out, "## Resample distribution")
	assert.Contains(t, out, "## Held-out confusion matrix — elasticnet")
	assert.Contains(t, out, "| actual 1 | 1 | 2 |")
	assert.Contains(t, out, "accuracy: 0.8400")
	assert.Contains(t, out, "## Numeric correlations")
}

func TestWriteSummary(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteSummary(&b, sampleResult().Summary))
	out := b.String()

	assert.Contains(t, out, "# Dataset summary")
	assert.Contains(t, out, "`stroke`: 5 positive / 95 negative")
	assert.Contains(t, out, "| age | 100 |")
	assert.Contains(t, out, "**gender**")
	assert.Contains(t, out, "Female=59")
}

func TestWriteStopsOnWriterError(t *testing.T) {
	w := &failingWriter{}
	err := Write(w, sampleResult())
	assert.Error(t, err)
}

type failingWriter struct{}

func (*failingWriter) Write(p []byte) (int, error) {
	return 0, assert.AnError
}
