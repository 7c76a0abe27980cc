package model

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"strokeml/pkg/stats"
)

// MARS fits multivariate adaptive regression splines to the 0/1 labels:
// a forward pass greedily adds mirrored hinge pairs, a backward pass prunes
// terms by generalized cross-validation. The clamped linear response serves
// as the class probability.
type MARS struct {
	MaxTerms int     // cap on basis terms including the intercept
	Degree   int     // max interaction degree (1 = additive)
	Penalty  float64 // GCV cost per term; 0 picks the Friedman default

	terms []basisTerm
	coef  []float64
}

type hinge struct {
	feature int
	knot    float64
	dir     int // +1: max(0, x-knot), -1: max(0, knot-x)
}

// basisTerm is a product of hinges; no hinges means the intercept.
type basisTerm struct {
	hinges []hinge
}

func (t basisTerm) eval(row []float64) float64 {
	v := 1.0
	for _, h := range t.hinges {
		d := float64(h.dir) * (row[h.feature] - h.knot)
		if d <= 0 {
			return 0
		}
		v *= d
	}
	return v
}

func (t basisTerm) uses(feature int) bool {
	for _, h := range t.hinges {
		if h.feature == feature {
			return true
		}
	}
	return false
}

// NewMARS returns a model with the given pruning cap and interaction degree.
func NewMARS(maxTerms, degree int) *MARS {
	return &MARS{MaxTerms: maxTerms, Degree: degree}
}

const knotCandidates = 15

// Fit runs the forward and backward passes.
func (m *MARS) Fit(X [][]float64, y []int) error {
	n, p, err := checkXY("mars", X, y)
	if err != nil {
		return err
	}
	if m.MaxTerms < 1 {
		return errors.New("mars: MaxTerms must be at least 1")
	}
	if m.Degree < 1 {
		return errors.New("mars: Degree must be at least 1")
	}
	penalty := m.Penalty
	if penalty == 0 {
		penalty = 3
		if m.Degree == 1 {
			penalty = 2
		}
	}

	target := make([]float64, n)
	for i, lab := range y {
		target[i] = float64(lab)
	}

	// Candidate knots per feature: interior quantiles of the training
	// values, deduplicated.
	knots := make([][]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		seen := map[float64]bool{}
		for k := 1; k <= knotCandidates; k++ {
			q := stats.Quantile(col, float64(k)/(knotCandidates+1))
			if !seen[q] {
				seen[q] = true
				knots[j] = append(knots[j], q)
			}
		}
	}

	// Forward pass.
	terms := []basisTerm{{}}
	coef, sse, err := lstsq(X, terms, target)
	if err != nil {
		return errors.New("mars: intercept fit failed")
	}
	for len(terms)+1 < m.MaxTerms {
		bestSSE := sse
		var bestPair []basisTerm
		for _, parent := range terms {
			if len(parent.hinges) >= m.Degree {
				continue
			}
			for j := 0; j < p; j++ {
				if parent.uses(j) {
					continue
				}
				for _, knot := range knots[j] {
					pair := []basisTerm{
						extend(parent, hinge{feature: j, knot: knot, dir: +1}),
						extend(parent, hinge{feature: j, knot: knot, dir: -1}),
					}
					cand := append(append([]basisTerm{}, terms...), pair...)
					_, candSSE, err := lstsq(X, cand, target)
					if err != nil {
						continue
					}
					if candSSE < bestSSE {
						bestSSE = candSSE
						bestPair = pair
					}
				}
			}
		}
		if bestPair == nil || sse-bestSSE < 1e-4*sse {
			break
		}
		terms = append(terms, bestPair...)
		sse = bestSSE
	}

	// Backward pass: drop one term at a time, tracking the best GCV
	// subset seen (the intercept always stays).
	coef, sse, err = lstsq(X, terms, target)
	if err != nil {
		return errors.New("mars: forward basis fit failed")
	}
	bestTerms := append([]basisTerm{}, terms...)
	bestCoef := append([]float64{}, coef...)
	bestGCV := gcv(sse, n, len(terms), penalty)
	for len(terms) > 1 {
		dropSSE := math.Inf(1)
		dropAt := -1
		var dropCoef []float64
		for k := 1; k < len(terms); k++ {
			cand := append(append([]basisTerm{}, terms[:k]...), terms[k+1:]...)
			c, s, err := lstsq(X, cand, target)
			if err != nil {
				continue
			}
			if s < dropSSE {
				dropSSE = s
				dropAt = k
				dropCoef = c
			}
		}
		if dropAt < 0 {
			break
		}
		terms = append(terms[:dropAt], terms[dropAt+1:]...)
		if g := gcv(dropSSE, n, len(terms), penalty); g < bestGCV {
			bestGCV = g
			bestTerms = append([]basisTerm{}, terms...)
			bestCoef = dropCoef
		}
	}

	m.terms = bestTerms
	m.coef = bestCoef
	return nil
}

func extend(parent basisTerm, h hinge) basisTerm {
	hs := make([]hinge, 0, len(parent.hinges)+1)
	hs = append(hs, parent.hinges...)
	hs = append(hs, h)
	return basisTerm{hinges: hs}
}

// gcv is the generalized cross-validation criterion with Friedman's
// effective-parameter count.
func gcv(sse float64, n, terms int, penalty float64) float64 {
	c := float64(terms) + penalty*float64(terms-1)/2
	d := 1 - c/float64(n)
	if d <= 0 {
		return math.Inf(1)
	}
	return sse / float64(n) / (d * d)
}

// lstsq solves the least squares fit of the basis expansion against the
// target and returns the coefficients and residual sum of squares.
func lstsq(X [][]float64, terms []basisTerm, target []float64) (coef []float64, sse float64, err error) {
	n, m := len(X), len(terms)
	B := mat.NewDense(n, m, nil)
	for i, row := range X {
		for k, t := range terms {
			B.Set(i, k, t.eval(row))
		}
	}
	var c mat.VecDense
	if err := c.SolveVec(B, mat.NewVecDense(n, target)); err != nil {
		return nil, 0, err
	}
	coef = make([]float64, m)
	for k := range coef {
		coef[k] = c.AtVec(k)
	}
	for i, row := range X {
		pred := 0.0
		for k, t := range terms {
			pred += coef[k] * t.eval(row)
		}
		d := pred - target[i]
		sse += d * d
	}
	return coef, sse, nil
}

// PredictProba evaluates the pruned basis and clamps to [0, 1].
func (m *MARS) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	parallelRows(len(X), func(i int) {
		v := 0.0
		for k, t := range m.terms {
			v += m.coef[k] * t.eval(X[i])
		}
		out[i] = math.Max(0, math.Min(1, v))
	})
	return out
}

// NumTerms reports the basis size kept after pruning.
func (m *MARS) NumTerms() int { return len(m.terms) }
