// Package tune runs the shared model-selection harness: every candidate in
// a family's hyperparameter grid is scored by repeated stratified k-fold
// AUC, and the best mean wins.
package tune

import (
	"fmt"

	"strokeml/pkg/model"
)

// Candidate is one point in a hyperparameter grid. Build constructs a fresh
// classifier seeded for the resample it will train on.
type Candidate struct {
	Desc   string
	Params map[string]float64
	Build  func(seed int64) model.Classifier
}

// Grid is a family of candidates sharing one model type.
type Grid struct {
	Family     string
	Candidates []Candidate
}

// ElasticNetGrid crosses the mixing parameter with the penalty strength.
func ElasticNetGrid(alphas, lambdas []float64) Grid {
	g := Grid{Family: "elasticnet"}
	for _, alpha := range alphas {
		for _, lambda := range lambdas {
			alpha, lambda := alpha, lambda
			g.Candidates = append(g.Candidates, Candidate{
				Desc:   fmt.Sprintf("alpha=%g lambda=%g", alpha, lambda),
				Params: map[string]float64{"alpha": alpha, "lambda": lambda},
				Build: func(seed int64) model.Classifier {
					m := model.NewElasticNet(alpha, lambda)
					m.Seed = seed
					return m
				},
			})
		}
	}
	return g
}

// MARSGrid crosses the interaction degree with the pruning cap.
func MARSGrid(degrees, maxTerms []int) Grid {
	g := Grid{Family: "mars"}
	for _, deg := range degrees {
		for _, mt := range maxTerms {
			deg, mt := deg, mt
			g.Candidates = append(g.Candidates, Candidate{
				Desc:   fmt.Sprintf("degree=%d terms=%d", deg, mt),
				Params: map[string]float64{"degree": float64(deg), "terms": float64(mt)},
				Build: func(seed int64) model.Classifier {
					return model.NewMARS(mt, deg)
				},
			})
		}
	}
	return g
}

// LinearSVMGrid varies the cost parameter.
func LinearSVMGrid(costs []float64) Grid {
	g := Grid{Family: "svm-linear"}
	for _, c := range costs {
		c := c
		g.Candidates = append(g.Candidates, Candidate{
			Desc:   fmt.Sprintf("C=%g", c),
			Params: map[string]float64{"C": c},
			Build: func(seed int64) model.Classifier {
				m := model.NewLinearSVM(c)
				m.Seed = seed
				return m
			},
		})
	}
	return g
}

// RBFSVMGrid crosses cost with the kernel width.
func RBFSVMGrid(costs, sigmas []float64) Grid {
	g := Grid{Family: "svm-rbf"}
	for _, c := range costs {
		for _, sigma := range sigmas {
			c, sigma := c, sigma
			g.Candidates = append(g.Candidates, Candidate{
				Desc:   fmt.Sprintf("C=%g sigma=%g", c, sigma),
				Params: map[string]float64{"C": c, "sigma": sigma},
				Build: func(seed int64) model.Classifier {
					m := model.NewRBFSVM(c, sigma)
					m.Seed = seed
					return m
				},
			})
		}
	}
	return g
}

// ForestGrid varies the per-split feature count with a fixed tree count.
func ForestGrid(mtries []int, nTrees int) Grid {
	g := Grid{Family: "random-forest"}
	for _, mtry := range mtries {
		mtry := mtry
		g.Candidates = append(g.Candidates, Candidate{
			Desc:   fmt.Sprintf("mtry=%d trees=%d", mtry, nTrees),
			Params: map[string]float64{"mtry": float64(mtry), "trees": float64(nTrees)},
			Build: func(seed int64) model.Classifier {
				return model.NewForest(
					WithSeededForest(seed, nTrees, mtry)...,
				)
			},
		})
	}
	return g
}

// WithSeededForest bundles the forest options the grid uses.
func WithSeededForest(seed int64, nTrees, mtry int) []model.ForestOption {
	return []model.ForestOption{
		model.WithNTrees(nTrees),
		model.WithMtry(mtry),
		model.WithForestLeaf(1),
		model.WithForestSeed(seed),
	}
}
