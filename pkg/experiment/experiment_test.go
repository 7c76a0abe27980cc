package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"strokeml/pkg/config"
)

// writeStudyCSV emits a small synthetic cohort: the outcome follows the two
// numeric columns, one of which is sometimes marked N/A.
func writeStudyCSV(t *testing.T, n int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	var b strings.Builder
	b.WriteString("id,group,age,score,outcome\n")
	for i := 0; i < n; i++ {
		age := 40 + rng.Float64()*40
		score := rng.NormFloat64()
		group := "a"
		if rng.Float64() < 0.5 {
			group = "b"
		}
		outcome := 0
		if age/40+score > 2 {
			outcome = 1
		}
		scoreCell := fmt.Sprintf("%.3f", score)
		if rng.Float64() < 0.05 {
			scoreCell = "N/A"
		}
		fmt.Fprintf(&b, "%d,%s,%.1f,%s,%d\n", i, group, age, scoreCell, outcome)
	}
	path := filepath.Join(t.TempDir(), "study.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func tinyConfig(path string) *config.Config {
	cfg := config.Default()
	cfg.Data.Path = path
	cfg.Data.Label = "outcome"
	cfg.CV.Folds = 3
	cfg.CV.Repeats = 1
	cfg.CV.ImputeK = 3
	cfg.Models.ElasticNet = config.ElasticNetGrid{Alphas: []float64{0.5}, Lambdas: []float64{0.001}}
	cfg.Models.MARS = config.MARSGrid{Degrees: []int{1}, MaxTerms: []int{5}}
	cfg.Models.SVMLinear = config.SVMLinearGrid{Costs: []float64{1}}
	cfg.Models.SVMRBF = config.SVMRBFGrid{Costs: []float64{1}, Sigmas: []float64{0.1}}
	cfg.Models.Forest = config.ForestGrid{Mtry: []int{2}, Trees: 25}
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("full pipeline")
	}
	path := writeStudyCSV(t, 240)
	cfg := tinyConfig(path)

	res, err := Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, []string{"id"}, res.Dropped)
	assert.Equal(t, 240, res.TrainRows+res.TestRows)
	require.Len(t, res.Families, 5)

	families := map[string]bool{}
	for _, fam := range res.Families {
		families[fam.Family] = true
		assert.GreaterOrEqual(t, fam.TestAUC, 0.0)
		assert.LessOrEqual(t, fam.TestAUC, 1.0)
		best := fam.CV.Best()
		assert.NotEmpty(t, best.AUCs)
		assert.GreaterOrEqual(t, best.Mean, 0.0)
		assert.LessOrEqual(t, best.Mean, 1.0)
	}
	assert.Len(t, families, 5)
	assert.NotEmpty(t, res.BestFamily)
	assert.Equal(t, res.TestRows, res.Confusion.N())
	// The signal is strong; a competent winner separates it.
	for _, fam := range res.Families {
		if fam.Family == res.BestFamily {
			assert.Greater(t, fam.CV.Best().Mean, 0.7)
		}
	}
}

func TestRunSameSeedSameNumbers(t *testing.T) {
	if testing.Short() {
		t.Skip("full pipeline")
	}
	path := writeStudyCSV(t, 200)
	cfg := tinyConfig(path)
	cfg.Models.Forest = config.ForestGrid{Mtry: []int{2}, Trees: 10}

	a, err := Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	b, err := Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, a.TrainRows, b.TrainRows)
	assert.Equal(t, a.Confusion, b.Confusion)
	for i := range a.Families {
		assert.Equal(t, a.Families[i].TestAUC, b.Families[i].TestAUC)
		assert.Equal(t, a.Families[i].CV.Best().AUCs, b.Families[i].CV.Best().AUCs)
	}
}

func TestRunRequiresDataPath(t *testing.T) {
	cfg := config.Default()
	_, err := Run(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "data path")
}

func TestExplore(t *testing.T) {
	path := writeStudyCSV(t, 80)
	cfg := tinyConfig(path)

	s, err := Explore(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 80, s.Rows)
	assert.Equal(t, "outcome", s.LabelName)
	assert.NotEmpty(t, s.Numeric)
	assert.NotEmpty(t, s.Categorical)
}
