// Package model implements the five classifier families the study compares
// and the metrics used to rank them.
package model

import (
	"errors"
	"math"
	"runtime"
	"sync"
)

// Classifier is a binary supervised model. Labels are 0/1 and
// PredictProba returns p(y=1) per row.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	PredictProba(X [][]float64) []float64
}

// PredictLabels thresholds probabilities into 0/1 labels.
func PredictLabels(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= threshold {
			out[i] = 1
		}
	}
	return out
}

// checkXY validates a training set and returns its dimensions.
func checkXY(prefix string, X [][]float64, y []int) (n, p int, err error) {
	if len(X) == 0 {
		return 0, 0, errors.New(prefix + ": empty X")
	}
	if len(y) != len(X) {
		return 0, 0, errors.New(prefix + ": X and y length mismatch")
	}
	p = len(X[0])
	for _, row := range X {
		if len(row) != p {
			return 0, 0, errors.New(prefix + ": inconsistent number of features in X rows")
		}
	}
	for _, lab := range y {
		if lab != 0 && lab != 1 {
			return 0, 0, errors.New(prefix + ": labels must be 0 or 1")
		}
	}
	return len(X), p, nil
}

// parallelRows runs fn over [0, n) split into GOMAXPROCS chunks.
func parallelRows(n int, fn func(i int)) {
	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
