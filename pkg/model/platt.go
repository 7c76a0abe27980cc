package model

import "errors"

// Platt maps raw decision scores to probabilities with a fitted sigmoid
// p = 1/(1+exp(A*s+B)). Used by the margin classifiers, whose scores are
// not probabilities on their own.
type Platt struct {
	A, B float64
}

// Fit estimates A and B by gradient descent on the cross-entropy of the
// smoothed targets against the training decision scores.
func (pl *Platt) Fit(scores []float64, y []int) error {
	n := len(scores)
	if n == 0 || n != len(y) {
		return errors.New("platt: scores and labels length mismatch")
	}
	nPos, nNeg := 0, 0
	for _, lab := range y {
		if lab == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return errors.New("platt: single-class sample")
	}

	// Out-of-sample smoothing of the targets.
	tPos := (float64(nPos) + 1) / (float64(nPos) + 2)
	tNeg := 1 / (float64(nNeg) + 2)
	targets := make([]float64, n)
	for i, lab := range y {
		if lab == 1 {
			targets[i] = tPos
		} else {
			targets[i] = tNeg
		}
	}

	pl.A, pl.B = -1, 0
	lr := 1e-2 / float64(n)
	for iter := 0; iter < 500; iter++ {
		gA, gB := 0.0, 0.0
		for i, s := range scores {
			p := sigmoid(-(pl.A*s + pl.B))
			d := targets[i] - p
			gA += d * s
			gB += d
		}
		pl.A -= lr * gA
		pl.B -= lr * gB
	}
	return nil
}

// Prob converts one decision score to a probability.
func (pl *Platt) Prob(score float64) float64 {
	return sigmoid(-(pl.A*score + pl.B))
}

// Probs converts a batch of decision scores.
func (pl *Platt) Probs(scores []float64) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = pl.Prob(s)
	}
	return out
}
