package model

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Forest bags CART trees on bootstrap samples. Mtry is the number of
// features each split considers; probabilities are the average of the
// trees' leaf fractions.
type Forest struct {
	NTrees         int
	Mtry           int // 0 => all features
	MaxDepth       int
	MinSamplesLeaf int
	Seed           int64

	trees []*Tree
}

// ForestOption is the functional config for Forest.
type ForestOption func(*Forest)

func WithNTrees(n int) ForestOption { return func(f *Forest) { f.NTrees = n } }

func WithMtry(k int) ForestOption { return func(f *Forest) { f.Mtry = k } }

func WithForestDepth(d int) ForestOption { return func(f *Forest) { f.MaxDepth = d } }

func WithForestLeaf(n int) ForestOption { return func(f *Forest) { f.MinSamplesLeaf = n } }

func WithForestSeed(seed int64) ForestOption { return func(f *Forest) { f.Seed = seed } }

// NewForest initializes the forest with sensible defaults.
func NewForest(opts ...ForestOption) *Forest {
	f := &Forest{
		NTrees:         500,
		MinSamplesLeaf: 1,
		Seed:           time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit grows the trees in parallel, each on its own bootstrap sample with a
// seed derived from the forest seed so fits are reproducible.
func (f *Forest) Fit(X [][]float64, y []int) error {
	n, _, err := checkXY("forest", X, y)
	if err != nil {
		return err
	}
	f.trees = make([]*Tree, f.NTrees)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := 0; k < f.NTrees; k++ {
		k := k
		g.Go(func() error {
			seed := f.Seed + int64(k)
			rng := rand.New(rand.NewSource(seed))
			sample := make([]int, n)
			for i := range sample {
				sample[i] = rng.Intn(n)
			}
			tree := NewTree(
				WithMaxDepth(f.MaxDepth),
				WithMinSamplesLeaf(f.MinSamplesLeaf),
				WithMinSamplesSplit(2*f.MinSamplesLeaf),
				WithMaxFeatures(f.Mtry),
				WithTreeSeed(seed),
			)
			if err := tree.FitIndices(X, y, sample); err != nil {
				return err
			}
			f.trees[k] = tree
			return nil
		})
	}
	return g.Wait()
}

// PredictProba averages the trees' probabilities per row.
func (f *Forest) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(f.trees) == 0 {
		return out
	}
	for _, tree := range f.trees {
		probs := tree.PredictProba(X)
		for i, p := range probs {
			out[i] += p
		}
	}
	inv := 1 / float64(len(f.trees))
	for i := range out {
		out[i] *= inv
	}
	return out
}
