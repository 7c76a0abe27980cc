// Package dataset loads the tabular study data and derives the numeric
// design matrix the models consume.
package dataset

import (
	"fmt"
	"math"
	"sort"
)

// Kind classifies a predictor column.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

// Column describes a single predictor.
type Column struct {
	Name string
	Kind Kind
}

// Table holds the loaded data: raw cells with missing values canonicalized
// to the empty string, plus the binary label vector.
type Table struct {
	Columns   []Column
	Rows      [][]string
	LabelName string
	Label     []int

	// Dropped lists predictor columns removed at load time (identifier
	// columns and columns over the missing-ratio ceiling).
	Dropped []string
}

// NumRows returns the number of observations.
func (t *Table) NumRows() int { return len(t.Rows) }

// Col returns the raw cells of predictor column j.
func (t *Table) Col(j int) []string {
	col := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col
}

// Encode expands the table into a design matrix. Numeric columns map to one
// feature each with missing cells as NaN; categorical columns one-hot expand
// over their observed levels in sorted order. Returns the matrix, the feature
// names, and the label vector.
func (t *Table) Encode() (X [][]float64, names []string, y []int, err error) {
	n := t.NumRows()
	if n == 0 {
		return nil, nil, nil, fmt.Errorf("dataset: empty table")
	}

	type encodedCol struct {
		names []string
		vals  [][]float64 // one slice per produced feature
	}
	cols := make([]encodedCol, len(t.Columns))

	for j, c := range t.Columns {
		raw := t.Col(j)
		switch c.Kind {
		case Numeric:
			vals := make([]float64, n)
			for i, cell := range raw {
				if cell == "" {
					vals[i] = math.NaN()
					continue
				}
				v, perr := parseFloat(cell)
				if perr != nil {
					return nil, nil, nil, fmt.Errorf("dataset: column %q row %d: %w", c.Name, i, perr)
				}
				vals[i] = v
			}
			cols[j] = encodedCol{names: []string{c.Name}, vals: [][]float64{vals}}
		case Categorical:
			levels := map[string]bool{}
			for _, cell := range raw {
				if cell != "" {
					levels[cell] = true
				}
			}
			ordered := make([]string, 0, len(levels))
			for lv := range levels {
				ordered = append(ordered, lv)
			}
			sort.Strings(ordered)
			ec := encodedCol{}
			for _, lv := range ordered {
				vals := make([]float64, n)
				for i, cell := range raw {
					if cell == lv {
						vals[i] = 1
					}
				}
				ec.names = append(ec.names, c.Name+"="+lv)
				ec.vals = append(ec.vals, vals)
			}
			cols[j] = ec
		default:
			return nil, nil, nil, fmt.Errorf("dataset: column %q has unknown kind %q", c.Name, c.Kind)
		}
	}

	for _, ec := range cols {
		names = append(names, ec.names...)
	}
	X = make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, 0, len(names))
		for _, ec := range cols {
			for _, vals := range ec.vals {
				row = append(row, vals[i])
			}
		}
		X[i] = row
	}
	y = make([]int, n)
	copy(y, t.Label)
	return X, names, y, nil
}
