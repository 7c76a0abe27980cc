// Package resample produces the stratified index splits the study trains
// on: one train/test split plus repeated stratified k-fold assignments.
package resample

import (
	"errors"
	"math/rand"
	"sort"
)

// Fold is one cross-validation resample: train on Train, score on Test.
type Fold struct {
	Train []int
	Test  []int
}

// byClass groups row indices by label and shuffles each group. The shuffle
// walks labels in sorted order so the rng stream is consumed identically on
// every run with the same seed.
func byClass(y []int, rng *rand.Rand) map[int][]int {
	groups := map[int][]int{}
	for i, lab := range y {
		groups[lab] = append(groups[lab], i)
	}
	for _, lab := range classLabels(groups) {
		idx := groups[lab]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
	}
	return groups
}

// classLabels returns the distinct labels in deterministic order.
func classLabels(groups map[int][]int) []int {
	labels := make([]int, 0, len(groups))
	for lab := range groups {
		labels = append(labels, lab)
	}
	sort.Ints(labels)
	return labels
}

// TrainTestSplit splits indices into train and test stratified by y, so the
// class proportions match on both sides to within one sample per class.
func TrainTestSplit(y []int, testFrac float64, rng *rand.Rand) (train, test []int, err error) {
	if testFrac <= 0 || testFrac >= 1 {
		return nil, nil, errors.New("resample: test fraction must be in (0, 1)")
	}
	if len(y) == 0 {
		return nil, nil, errors.New("resample: empty labels")
	}
	groups := byClass(y, rng)
	for _, lab := range classLabels(groups) {
		idx := groups[lab]
		nTest := int(float64(len(idx)) * testFrac)
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	if len(train) == 0 || len(test) == 0 {
		return nil, nil, errors.New("resample: degenerate split")
	}
	return train, test, nil
}

// KFold assigns every index to exactly one of k folds, stratified by y.
// Each returned Fold's Test is its fold and Train is everything else.
func KFold(y []int, k int, rng *rand.Rand) ([]Fold, error) {
	if k < 2 {
		return nil, errors.New("resample: k must be at least 2")
	}
	if k > len(y) {
		return nil, errors.New("resample: k exceeds sample count")
	}
	assign := make([]int, len(y))
	groups := byClass(y, rng)
	// Round-robin within each class so every fold tracks the global
	// class ratio.
	next := 0
	for _, lab := range classLabels(groups) {
		for _, i := range groups[lab] {
			assign[i] = next % k
			next++
		}
	}
	folds := make([]Fold, k)
	for i, f := range assign {
		for j := 0; j < k; j++ {
			if j == f {
				folds[j].Test = append(folds[j].Test, i)
			} else {
				folds[j].Train = append(folds[j].Train, i)
			}
		}
	}
	return folds, nil
}

// RepeatedKFold returns repeats independent stratified k-fold assignments.
func RepeatedKFold(y []int, k, repeats int, rng *rand.Rand) ([][]Fold, error) {
	if repeats < 1 {
		return nil, errors.New("resample: repeats must be at least 1")
	}
	out := make([][]Fold, repeats)
	for r := 0; r < repeats; r++ {
		folds, err := KFold(y, k, rng)
		if err != nil {
			return nil, err
		}
		out[r] = folds
	}
	return out, nil
}

// Take gathers the rows and labels at the given indices.
func Take(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
