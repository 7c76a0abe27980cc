// Package stats wraps the gonum descriptive statistics used across the
// pipeline. Callers filter missing values before calling.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Std computes the sample standard deviation of a slice.
func Std(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}

// Median returns the median value of the slice (allocates a copy).
func Median(x []float64) float64 {
	return Quantile(x, 0.5)
}

// Quantile returns the p-th empirical quantile (0 <= p <= 1), allocating a
// sorted copy of x.
func Quantile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 1 {
		return cp[n-1]
	}
	return stat.Quantile(p, stat.Empirical, cp, nil)
}

// Skewness returns the sample skewness, or 0 when it is undefined.
func Skewness(x []float64) float64 {
	if len(x) < 3 {
		return 0
	}
	s := stat.Skew(x, nil)
	if math.IsNaN(s) {
		return 0
	}
	return s
}

// Correlation computes the Pearson correlation between two equal-length
// slices, or 0 when either side is constant.
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for _, v := range x[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
