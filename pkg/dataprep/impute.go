// Package dataprep holds the preprocessing steps that are fit on training
// rows and applied to both splits: k-NN imputation and standardization.
package dataprep

import (
	"errors"
	"math"
	"sort"
)

// KNNImputer fills NaN cells with the mean of the K nearest complete
// neighbors among the training rows. Distances are Euclidean over the
// features observed on both sides, standardized by the training column
// spread so wide-ranged columns do not dominate.
type KNNImputer struct {
	K int

	rows  [][]float64
	mean  []float64
	std   []float64
	fitOK bool
}

// NewKNNImputer returns an imputer with the given neighbor count.
func NewKNNImputer(k int) *KNNImputer { return &KNNImputer{K: k} }

// Fit stores the training rows and their per-column mean and spread,
// computed over observed cells only.
func (im *KNNImputer) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("impute: empty X")
	}
	if im.K <= 0 {
		return errors.New("impute: K must be positive")
	}
	p := len(X[0])
	im.rows = X
	im.mean = make([]float64, p)
	im.std = make([]float64, p)
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
			return errors.New("impute: column with no observed values")
		}
		m := sum / float64(n)
		im.mean[j] = m
		v := sumSq/float64(n) - m*m
		if v > 0 {
			im.std[j] = math.Sqrt(v)
		} else {
			im.std[j] = 1
		}
	}
	im.fitOK = true
	return nil
}

// Transform returns a copy of X with every NaN replaced. Cells with no
// usable neighbor fall back to the training column mean.
func (im *KNNImputer) Transform(X [][]float64) [][]float64 {
	if !im.fitOK {
		return X
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		cp := make([]float64, len(row))
		copy(cp, row)
		out[i] = cp
		for j, v := range cp {
			if math.IsNaN(v) {
				cp[j] = im.imputeCell(row, j)
			}
		}
	}
	return out
}

// FitTransform fits on X and transforms it.
func (im *KNNImputer) FitTransform(X [][]float64) ([][]float64, error) {
	if err := im.Fit(X); err != nil {
		return nil, err
	}
	return im.Transform(X), nil
}

type neighbor struct {
	d float64
	v float64
}

// imputeCell finds the K nearest training rows that observe column j and
// averages their values there.
func (im *KNNImputer) imputeCell(row []float64, j int) float64 {
	nbrs := make([]neighbor, 0, im.K+1)
	for _, tr := range im.rows {
		if math.IsNaN(tr[j]) {
			continue
		}
		d, ok := im.distance(row, tr, j)
		if !ok {
			continue
		}
		nb := neighbor{d: d, v: tr[j]}
		if len(nbrs) < im.K {
			nbrs = append(nbrs, nb)
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		} else if d < nbrs[len(nbrs)-1].d {
			nbrs[len(nbrs)-1] = nb
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		}
	}
	if len(nbrs) == 0 {
		return im.mean[j]
	}
	sum := 0.0
	for _, nb := range nbrs {
		sum += nb.v
	}
	return sum / float64(len(nbrs))
}

// distance is the standardized Euclidean distance over features observed on
// both sides, excluding the target column. ok is false when no feature is
// mutually observed.
func (im *KNNImputer) distance(a, b []float64, skip int) (float64, bool) {
	sum, n := 0.0, 0
	for j := range a {
		if j == skip || math.IsNaN(a[j]) || math.IsNaN(b[j]) {
			continue
		}
		d := (a[j] - b[j]) / im.std[j]
		sum += d * d
		n++
	}
	if n == 0 {
		return 0, false
	}
	return math.Sqrt(sum / float64(n)), true
}
