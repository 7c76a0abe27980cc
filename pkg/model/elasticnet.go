package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// ElasticNet is penalized logistic regression: the L2 part of the penalty
// enters the gradient, the L1 part is applied as a soft-threshold after
// each proximal step. Alpha mixes the two (1 = pure lasso, 0 = pure ridge)
// and Lambda sets the overall strength.
type ElasticNet struct {
	Alpha  float64
	Lambda float64

	LearningRate float64
	Epochs       int
	Seed         int64

	W []float64
	B float64
}

// NewElasticNet returns a model with the study's training schedule.
func NewElasticNet(alpha, lambda float64) *ElasticNet {
	return &ElasticNet{
		Alpha:        alpha,
		Lambda:       lambda,
		LearningRate: 0.5,
		Epochs:       300,
		Seed:         1,
	}
}

// Fit trains by full-batch proximal gradient descent. Features are assumed
// centered and scaled; the intercept is unpenalized.
func (m *ElasticNet) Fit(X [][]float64, y []int) error {
	n, p, err := checkXY("elasticnet", X, y)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(m.Seed))
	m.W = make([]float64, p)
	for j := range m.W {
		m.W[j] = rng.NormFloat64() * 0.01
	}
	m.B = 0

	grad := make([]float64, p)
	l2 := m.Lambda * (1 - m.Alpha)
	l1 := m.Lambda * m.Alpha
	for ep := 0; ep < m.Epochs; ep++ {
		lr := m.LearningRate / (1 + 0.01*float64(ep))
		for j := range grad {
			grad[j] = 0
		}
		gb := 0.0
		for i, row := range X {
			d := sigmoid(floats.Dot(m.W, row)+m.B) - float64(y[i])
			floats.AddScaled(grad, d, row)
			gb += d
		}
		inv := 1 / float64(n)
		for j := range m.W {
			m.W[j] -= lr * (grad[j]*inv + l2*m.W[j])
			m.W[j] = softThreshold(m.W[j], lr*l1)
		}
		m.B -= lr * gb * inv
	}
	return nil
}

// PredictProba returns p(y=1) per row.
func (m *ElasticNet) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	parallelRows(len(X), func(i int) {
		out[i] = sigmoid(floats.Dot(m.W, X[i]) + m.B)
	})
	return out
}

// softThreshold is the proximal operator of the L1 penalty.
func softThreshold(w, t float64) float64 {
	switch {
	case w > t:
		return w - t
	case w < -t:
		return w + t
	default:
		return 0
	}
}

// NonzeroWeights counts the coefficients the L1 penalty left active.
func (m *ElasticNet) NonzeroWeights() int {
	c := 0
	for _, w := range m.W {
		if math.Abs(w) > 1e-12 {
			c++
		}
	}
	return c
}
