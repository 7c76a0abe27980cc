package dataset

import (
	"sort"

	"strokeml/pkg/stats"
)

// NumericSummary describes one numeric predictor.
type NumericSummary struct {
	Name    string
	N       int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	P25     float64
	Median  float64
	P75     float64
	Max     float64
	Skew    float64
}

// LevelCount is one categorical level with its frequency.
type LevelCount struct {
	Level string
	Count int
}

// CategoricalSummary describes one categorical predictor.
type CategoricalSummary struct {
	Name    string
	Missing int
	Levels  []LevelCount // descending by count, ties by level name
}

// Summary carries the exploratory numbers for a table: per-column
// descriptives, the label balance, and the numeric correlation matrix.
type Summary struct {
	Rows         int
	Numeric      []NumericSummary
	Categorical  []CategoricalSummary
	LabelName    string
	Positive     int
	Negative     int
	NumericNames []string
	Correlation  [][]float64
}

// Summarize computes the Summary for a loaded table.
func Summarize(t *Table) *Summary {
	s := &Summary{Rows: t.NumRows(), LabelName: t.LabelName}
	for _, lab := range t.Label {
		if lab == 1 {
			s.Positive++
		} else {
			s.Negative++
		}
	}

	// Numeric columns keep their observed values (with row alignment kept
	// for the pairwise correlations below).
	type numericCol struct {
		name string
		vals []float64 // NaN-free observed values
		rows []float64 // aligned per-row values, missing rows skipped later
		miss []bool
	}
	var numCols []numericCol

	for j, c := range t.Columns {
		raw := t.Col(j)
		if c.Kind == Numeric {
			nc := numericCol{name: c.Name, rows: make([]float64, len(raw)), miss: make([]bool, len(raw))}
			missing := 0
			for i, cell := range raw {
				if cell == "" {
					nc.miss[i] = true
					missing++
					continue
				}
				v, err := parseFloat(cell)
				if err != nil {
					nc.miss[i] = true
					missing++
					continue
				}
				nc.rows[i] = v
				nc.vals = append(nc.vals, v)
			}
			min, max := stats.MinMax(nc.vals)
			s.Numeric = append(s.Numeric, NumericSummary{
				Name:    c.Name,
				N:       len(nc.vals),
				Missing: missing,
				Mean:    stats.Mean(nc.vals),
				Std:     stats.Std(nc.vals),
				Min:     min,
				P25:     stats.Quantile(nc.vals, 0.25),
				Median:  stats.Median(nc.vals),
				P75:     stats.Quantile(nc.vals, 0.75),
				Max:     max,
				Skew:    stats.Skewness(nc.vals),
			})
			numCols = append(numCols, nc)
			continue
		}

		counts := map[string]int{}
		missing := 0
		for _, cell := range raw {
			if cell == "" {
				missing++
				continue
			}
			counts[cell]++
		}
		cs := CategoricalSummary{Name: c.Name, Missing: missing}
		for lv, n := range counts {
			cs.Levels = append(cs.Levels, LevelCount{Level: lv, Count: n})
		}
		sort.Slice(cs.Levels, func(a, b int) bool {
			if cs.Levels[a].Count != cs.Levels[b].Count {
				return cs.Levels[a].Count > cs.Levels[b].Count
			}
			return cs.Levels[a].Level < cs.Levels[b].Level
		})
		s.Categorical = append(s.Categorical, cs)
	}

	// Pairwise Pearson correlations over rows where both columns are
	// observed.
	s.Correlation = make([][]float64, len(numCols))
	for a := range numCols {
		s.NumericNames = append(s.NumericNames, numCols[a].name)
		s.Correlation[a] = make([]float64, len(numCols))
		for b := range numCols {
			if a == b {
				s.Correlation[a][b] = 1
				continue
			}
			var xs, ys []float64
			for i := range numCols[a].rows {
				if numCols[a].miss[i] || numCols[b].miss[i] {
					continue
				}
				xs = append(xs, numCols[a].rows[i])
				ys = append(ys, numCols[b].rows[i])
			}
			s.Correlation[a][b] = stats.Correlation(xs, ys)
		}
	}
	return s
}
