package model

import (
	"math"
	"math/rand"
)

// RBFSVM is a Gaussian-kernel support vector machine trained with
// kernelized Pegasos. Sigma follows the kernlab convention:
// K(a,b) = exp(-Sigma*||a-b||^2). The model keeps the training rows and a
// support count per row instead of an explicit weight vector.
type RBFSVM struct {
	C     float64
	Sigma float64

	Epochs int
	Seed   int64

	rows   [][]float64
	sy     []float64 // signed labels
	alpha  []float64 // violation counts per training row
	scale  float64   // 1/(lambda*T)
	platt  Platt
	lambda float64
}

// NewRBFSVM returns a radial SVM with the study's training schedule.
func NewRBFSVM(c, sigma float64) *RBFSVM {
	return &RBFSVM{C: c, Sigma: sigma, Epochs: 10, Seed: 1}
}

func (m *RBFSVM) kernel(a, b []float64) float64 {
	sum := 0.0
	for j := range a {
		d := a[j] - b[j]
		sum += d * d
	}
	return math.Exp(-m.Sigma * sum)
}

// Fit runs kernel Pegasos: each step samples a row, evaluates the current
// decision value against it, and bumps its support count on a margin
// violation.
func (m *RBFSVM) Fit(X [][]float64, y []int) error {
	n, _, err := checkXY("rbfsvm", X, y)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(m.Seed))
	m.lambda = 1 / (m.C * float64(n))
	m.rows = X
	m.alpha = make([]float64, n)
	m.sy = make([]float64, n)
	for i, lab := range y {
		if lab == 1 {
			m.sy[i] = 1
		} else {
			m.sy[i] = -1
		}
	}

	T := m.Epochs * n
	for t := 1; t <= T; t++ {
		i := rng.Intn(n)
		f := m.decisionAt(X[i], float64(t))
		if m.sy[i]*f < 1 {
			m.alpha[i]++
		}
	}
	m.scale = 1 / (m.lambda * float64(T))
	return m.platt.Fit(m.Decision(X), y)
}

// decisionAt evaluates the in-training decision value at step t.
func (m *RBFSVM) decisionAt(x []float64, t float64) float64 {
	sum := 0.0
	for j, a := range m.alpha {
		if a == 0 {
			continue
		}
		sum += a * m.sy[j] * m.kernel(m.rows[j], x)
	}
	return sum / (m.lambda * t)
}

// Decision returns raw decision values per row.
func (m *RBFSVM) Decision(X [][]float64) []float64 {
	out := make([]float64, len(X))
	parallelRows(len(X), func(i int) {
		sum := 0.0
		for j, a := range m.alpha {
			if a == 0 {
				continue
			}
			sum += a * m.sy[j] * m.kernel(m.rows[j], X[i])
		}
		out[i] = sum * m.scale
	})
	return out
}

// PredictProba returns Platt-calibrated probabilities.
func (m *RBFSVM) PredictProba(X [][]float64) []float64 {
	return m.platt.Probs(m.Decision(X))
}

// SupportVectors counts training rows with a nonzero support count.
func (m *RBFSVM) SupportVectors() int {
	c := 0
	for _, a := range m.alpha {
		if a > 0 {
			c++
		}
	}
	return c
}
