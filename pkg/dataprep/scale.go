package dataprep

import (
	"errors"
	"math"
)

// StandardScaler centers each column to zero mean and unit variance using
// statistics from Fit. Constant columns pass through unscaled.
type StandardScaler struct {
	Mean []float64
	Std  []float64

	fitOK bool
}

// NewStandardScaler returns an unfit scaler.
func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

// Fit computes per-column mean and standard deviation, skipping NaN cells.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("scale: empty X")
	}
	p := len(X[0])
	s.Mean = make([]float64, p)
	s.Std = make([]float64, p)
	for j := 0; j < p; j++ {
		n, sum, sumSq := 0, 0.0, 0.0
		for i := range X {
			v := X[i][j]
			if math.IsNaN(v) {
				continue
			}
			n++
			sum += v
			sumSq += v * v
		}
		if n == 0 {
			return errors.New("scale: column with no observed values")
		}
		m := sum / float64(n)
		s.Mean[j] = m
		v := sumSq/float64(n) - m*m
		if v > 0 {
			s.Std[j] = math.Sqrt(v)
		} else {
			s.Std[j] = 1
		}
	}
	s.fitOK = true
	return nil
}

// Transform returns a standardized copy of X.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	if !s.fitOK {
		return X
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		cp := make([]float64, len(row))
		for j, v := range row {
			cp[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = cp
	}
	return out
}

// FitTransform fits on X and transforms it.
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X), nil
}
