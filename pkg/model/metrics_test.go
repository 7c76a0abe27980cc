package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAUC(t *testing.T) {
	t.Run("perfect ranking", func(t *testing.T) {
		auc, err := AUC([]float64{0.1, 0.2, 0.8, 0.9}, []int{0, 0, 1, 1})
		require.NoError(t, err)
		assert.InDelta(t, 1, auc, 1e-12)
	})

	t.Run("inverted ranking", func(t *testing.T) {
		auc, err := AUC([]float64{0.9, 0.8, 0.2, 0.1}, []int{0, 0, 1, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0, auc, 1e-12)
	})

	t.Run("random scores hover near one half", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		n := 5000
		scores := make([]float64, n)
		y := make([]int, n)
		for i := range scores {
			scores[i] = rng.Float64()
			y[i] = rng.Intn(2)
		}
		auc, err := AUC(scores, y)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, auc, 0.03)
	})

	t.Run("bounded", func(t *testing.T) {
		rng := rand.New(rand.NewSource(2))
		for trial := 0; trial < 20; trial++ {
			scores := make([]float64, 50)
			y := make([]int, 50)
			for i := range scores {
				scores[i] = rng.NormFloat64()
				y[i] = rng.Intn(2)
			}
			auc, err := AUC(scores, y)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, auc, 0.0)
			assert.LessOrEqual(t, auc, 1.0)
		}
	})

	t.Run("single class is an error", func(t *testing.T) {
		_, err := AUC([]float64{0.1, 0.9}, []int{1, 1})
		assert.Error(t, err)
		_, err = AUC([]float64{0.1, 0.9}, []int{0, 0})
		assert.Error(t, err)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := AUC([]float64{0.5}, []int{0, 1})
		assert.Error(t, err)
	})
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []int{1, 1, 1, 0, 0, 0, 0, 0}
	yPred := []int{1, 1, 0, 0, 0, 0, 0, 1}
	cm, err := NewConfusionMatrix(yTrue, yPred)
	require.NoError(t, err)

	assert.Equal(t, 2, cm.TP)
	assert.Equal(t, 1, cm.FN)
	assert.Equal(t, 4, cm.TN)
	assert.Equal(t, 1, cm.FP)
	assert.Equal(t, 8, cm.N())

	assert.InDelta(t, 0.75, cm.Accuracy(), 1e-12)
	assert.InDelta(t, 2.0/3, cm.Sensitivity(), 1e-12)
	assert.InDelta(t, 0.8, cm.Specificity(), 1e-12)
	assert.InDelta(t, 2.0/3, cm.PPV(), 1e-12)
	assert.InDelta(t, 0.8, cm.NPV(), 1e-12)
	assert.InDelta(t, 3.0/8, cm.Prevalence(), 1e-12)

	// kappa = (po - pe)/(1 - pe) with pe from the marginals.
	pe := (3.0/8)*(3.0/8) + (5.0/8)*(5.0/8)
	assert.InDelta(t, (0.75-pe)/(1-pe), cm.Kappa(), 1e-12)
}

func TestConfusionMatrixDegenerate(t *testing.T) {
	_, err := NewConfusionMatrix(nil, nil)
	assert.Error(t, err)

	cm, err := NewConfusionMatrix([]int{1, 1}, []int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, cm.Accuracy())
	assert.Equal(t, 0.0, cm.Kappa()) // pe == 1 guard
}

func TestPredictLabels(t *testing.T) {
	assert.Equal(t, []int{0, 1, 1}, PredictLabels([]float64{0.4, 0.5, 0.9}, 0.5))
}
