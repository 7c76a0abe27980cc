package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadOptions controls CSV ingestion.
type LoadOptions struct {
	// LabelColumn names the binary outcome column. Required.
	LabelColumn string
	// DropColumns are removed before anything else (identifier columns).
	DropColumns []string
	// MissingTokens are cell values treated as missing. A nil slice means
	// the default set {"", "NA", "N/A", "NaN"}.
	MissingTokens []string
	// MaxMissingRatio drops predictor columns whose missing fraction
	// exceeds it. Zero means keep everything.
	MaxMissingRatio float64
}

func defaultMissingTokens() []string { return []string{"", "NA", "N/A", "NaN"} }

// LoadCSV reads the study CSV into a Table. The first record is the header.
// Rows with the wrong arity are an error, the label must be strictly 0/1,
// and column kinds are inferred: numeric when every observed cell parses as
// a float, categorical otherwise.
func LoadCSV(path string, opts LoadOptions) (*Table, error) {
	if opts.LabelColumn == "" {
		return nil, fmt.Errorf("dataset: label column not set")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: reading %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset: %s has no data rows", path)
	}
	header, rows := records[0], records[1:]

	missing := map[string]bool{}
	tokens := opts.MissingTokens
	if tokens == nil {
		tokens = defaultMissingTokens()
	}
	for _, tok := range tokens {
		missing[tok] = true
	}
	drop := map[string]bool{}
	for _, name := range opts.DropColumns {
		drop[name] = true
	}

	labelIdx := -1
	var keepIdx []int
	var dropped []string
	for j, name := range header {
		name = strings.TrimSpace(name)
		header[j] = name
		switch {
		case name == opts.LabelColumn:
			labelIdx = j
		case drop[name]:
			dropped = append(dropped, name)
		default:
			keepIdx = append(keepIdx, j)
		}
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("dataset: label column %q not in header", opts.LabelColumn)
	}

	t := &Table{LabelName: opts.LabelColumn, Dropped: dropped}
	for i, rec := range rows {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("dataset: row %d has %d fields, want %d", i+1, len(rec), len(header))
		}
		cell := strings.TrimSpace(rec[labelIdx])
		lab, err := strconv.Atoi(cell)
		if err != nil || (lab != 0 && lab != 1) {
			return nil, fmt.Errorf("dataset: row %d: label %q is not binary", i+1, cell)
		}
		t.Label = append(t.Label, lab)
		row := make([]string, len(keepIdx))
		for k, j := range keepIdx {
			v := strings.TrimSpace(rec[j])
			if missing[v] {
				v = ""
			}
			row[k] = v
		}
		t.Rows = append(t.Rows, row)
	}

	// Infer kinds and apply the missing ceiling.
	n := len(t.Rows)
	var cols []Column
	var keep []int
	for k, j := range keepIdx {
		name := header[j]
		nMissing, numeric := 0, true
		for i := 0; i < n; i++ {
			v := t.Rows[i][k]
			if v == "" {
				nMissing++
				continue
			}
			if numeric {
				if _, err := parseFloat(v); err != nil {
					numeric = false
				}
			}
		}
		if opts.MaxMissingRatio > 0 && float64(nMissing)/float64(n) > opts.MaxMissingRatio {
			t.Dropped = append(t.Dropped, name)
			continue
		}
		kind := Categorical
		if numeric {
			kind = Numeric
		}
		cols = append(cols, Column{Name: name, Kind: kind})
		keep = append(keep, k)
	}
	if len(keep) != len(keepIdx) {
		for i := range t.Rows {
			row := make([]string, len(keep))
			for c, k := range keep {
				row[c] = t.Rows[i][k]
			}
			t.Rows[i] = row
		}
	}
	t.Columns = cols
	return t, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
