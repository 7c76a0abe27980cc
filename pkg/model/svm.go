package model

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// LinearSVM is a linear-kernel support vector machine trained with the
// Pegasos stochastic subgradient method. C is the usual cost parameter;
// internally the regularizer is lambda = 1/(C*n). Probabilities come from
// Platt scaling of the decision values.
type LinearSVM struct {
	C      float64
	Epochs int
	Seed   int64

	W     []float64
	B     float64
	platt Platt
}

// NewLinearSVM returns a linear SVM with the study's training schedule.
func NewLinearSVM(c float64) *LinearSVM {
	return &LinearSVM{C: c, Epochs: 20, Seed: 1}
}

// Fit runs Pegasos over Epochs passes of the training set, then fits the
// Platt calibrator on the training decision values.
func (m *LinearSVM) Fit(X [][]float64, y []int) error {
	n, p, err := checkXY("svm", X, y)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(m.Seed))
	lambda := 1 / (m.C * float64(n))
	m.W = make([]float64, p)
	m.B = 0

	// Signed labels for the hinge loss.
	sy := make([]float64, n)
	for i, lab := range y {
		if lab == 1 {
			sy[i] = 1
		} else {
			sy[i] = -1
		}
	}

	t := 0
	for ep := 0; ep < m.Epochs; ep++ {
		for k := 0; k < n; k++ {
			t++
			i := rng.Intn(n)
			eta := 1 / (lambda * float64(t))
			margin := sy[i] * (floats.Dot(m.W, X[i]) + m.B)
			floats.Scale(1-eta*lambda, m.W)
			if margin < 1 {
				floats.AddScaled(m.W, eta*sy[i], X[i])
				m.B += eta * sy[i] // bias stays unregularized
			}
		}
	}
	return m.platt.Fit(m.Decision(X), y)
}

// Decision returns the raw margin w*x+b per row.
func (m *LinearSVM) Decision(X [][]float64) []float64 {
	out := make([]float64, len(X))
	parallelRows(len(X), func(i int) {
		out[i] = floats.Dot(m.W, X[i]) + m.B
	})
	return out
}

// PredictProba returns Platt-calibrated probabilities.
func (m *LinearSVM) PredictProba(X [][]float64) []float64 {
	return m.platt.Probs(m.Decision(X))
}
