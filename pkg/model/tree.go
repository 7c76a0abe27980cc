package model

import (
	"math/rand"
	"sort"
	"time"
)

// Tree is a CART classifier for binary labels. Splits minimize weighted
// Gini impurity; leaves keep the positive-class fraction so the forest can
// average probabilities.
type Tree struct {
	MaxDepth        int // 0 => no limit
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 => all features, >0 => features sampled per split
	Seed            int64

	root *treeNode
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *treeNode
	right     *treeNode

	n  int
	p1 float64
}

// TreeOption is the functional config for Tree.
type TreeOption func(*Tree)

func WithMaxDepth(d int) TreeOption { return func(t *Tree) { t.MaxDepth = d } }

func WithMinSamplesSplit(n int) TreeOption { return func(t *Tree) { t.MinSamplesSplit = n } }

func WithMinSamplesLeaf(n int) TreeOption { return func(t *Tree) { t.MinSamplesLeaf = n } }

func WithMaxFeatures(k int) TreeOption { return func(t *Tree) { t.MaxFeatures = k } }

func WithTreeSeed(seed int64) TreeOption { return func(t *Tree) { t.Seed = seed } }

// NewTree returns a tree with sensible defaults.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains on the whole training set.
func (t *Tree) Fit(X [][]float64, y []int) error {
	n, _, err := checkXY("tree", X, y)
	if err != nil {
		return err
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, idx)
}

// FitIndices trains on the rows named by idx. The forest uses this for
// bootstrap samples without copying the matrix.
func (t *Tree) FitIndices(X [][]float64, y []int, idx []int) error {
	if _, _, err := checkXY("tree", X, y); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(t.Seed))
	t.root = t.grow(X, y, idx, 0, rng)
	return nil
}

func (t *Tree) grow(X [][]float64, y []int, idx []int, depth int, rng *rand.Rand) *treeNode {
	node := &treeNode{n: len(idx)}
	nPos := 0
	for _, i := range idx {
		nPos += y[i]
	}
	node.p1 = float64(nPos) / float64(len(idx))

	if nPos == 0 || nPos == len(idx) ||
		len(idx) < t.MinSamplesSplit ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		node.leaf = true
		return node
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, rng)
	if !ok {
		node.leaf = true
		return node
	}
	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < t.MinSamplesLeaf || len(right) < t.MinSamplesLeaf {
		node.leaf = true
		return node
	}
	node.feature = feature
	node.threshold = threshold
	node.left = t.grow(X, y, left, depth+1, rng)
	node.right = t.grow(X, y, right, depth+1, rng)
	return node
}

// bestSplit scans candidate features for the threshold with the lowest
// weighted Gini impurity. Thresholds sit midway between adjacent distinct
// values, the teacher pattern for numeric splits.
func (t *Tree) bestSplit(X [][]float64, y []int, idx []int, rng *rand.Rand) (feature int, threshold float64, ok bool) {
	p := len(X[0])
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rng.Shuffle(p, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.MaxFeatures]
	}

	n := len(idx)
	order := make([]int, n)
	bestGini := gini(posCount(y, idx), n)
	if bestGini == 0 {
		return 0, 0, false
	}
	found := false

	for _, f := range features {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

		leftPos, leftN := 0, 0
		totalPos := posCount(y, idx)
		for k := 0; k < n-1; k++ {
			leftPos += y[order[k]]
			leftN++
			if X[order[k]][f] == X[order[k+1]][f] {
				continue
			}
			rightN := n - leftN
			if leftN < t.MinSamplesLeaf || rightN < t.MinSamplesLeaf {
				continue
			}
			g := (float64(leftN)*gini(leftPos, leftN) +
				float64(rightN)*gini(totalPos-leftPos, rightN)) / float64(n)
			if g < bestGini {
				bestGini = g
				feature = f
				threshold = (X[order[k]][f] + X[order[k+1]][f]) / 2
				found = true
			}
		}
	}
	return feature, threshold, found
}

func posCount(y []int, idx []int) int {
	c := 0
	for _, i := range idx {
		c += y[i]
	}
	return c
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

// PredictProba returns the leaf positive fraction per row.
func (t *Tree) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	parallelRows(len(X), func(i int) {
		node := t.root
		for node != nil && !node.leaf {
			if X[i][node.feature] <= node.threshold {
				node = node.left
			} else {
				node = node.right
			}
		}
		if node != nil {
			out[i] = node.p1
		}
	})
	return out
}
