package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sample = `id,gender,age,bmi,smoking_status,stroke
1,Male,67,36.6,smokes,1
2,Female,61,N/A,never smoked,1
3,Male,80,32.5,never smoked,0
4,Female,49,34.4,smokes,0
5,Female,79,24,Unknown,0
`

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, sample)
	table, err := LoadCSV(path, LoadOptions{LabelColumn: "stroke", DropColumns: []string{"id"}})
	require.NoError(t, err)

	assert.Equal(t, 5, table.NumRows())
	assert.Equal(t, []string{"id"}, table.Dropped)
	assert.Equal(t, []int{1, 1, 0, 0, 0}, table.Label)

	require.Len(t, table.Columns, 4)
	assert.Equal(t, Column{Name: "gender", Kind: Categorical}, table.Columns[0])
	assert.Equal(t, Column{Name: "age", Kind: Numeric}, table.Columns[1])
	assert.Equal(t, Column{Name: "bmi", Kind: Numeric}, table.Columns[2])
	assert.Equal(t, Column{Name: "smoking_status", Kind: Categorical}, table.Columns[3])

	// The N/A token becomes a canonical missing cell.
	assert.Equal(t, "", table.Rows[1][2])
	// Unknown stays a real category level.
	assert.Equal(t, "Unknown", table.Rows[4][3])
}

func TestLoadCSVErrors(t *testing.T) {
	t.Run("missing label column", func(t *testing.T) {
		path := writeCSV(t, sample)
		_, err := LoadCSV(path, LoadOptions{LabelColumn: "outcome"})
		assert.ErrorContains(t, err, "label column")
	})

	t.Run("non-binary label", func(t *testing.T) {
		path := writeCSV(t, "a,stroke\n1,2\n")
		_, err := LoadCSV(path, LoadOptions{LabelColumn: "stroke"})
		assert.ErrorContains(t, err, "not binary")
	})

	t.Run("ragged row", func(t *testing.T) {
		path := writeCSV(t, "a,b,stroke\n1,2,0\n1,0\n")
		_, err := LoadCSV(path, LoadOptions{LabelColumn: "stroke"})
		assert.Error(t, err)
	})

	t.Run("no data rows", func(t *testing.T) {
		path := writeCSV(t, "a,stroke\n")
		_, err := LoadCSV(path, LoadOptions{LabelColumn: "stroke"})
		assert.ErrorContains(t, err, "no data rows")
	})
}

func TestLoadCSVMissingCeiling(t *testing.T) {
	path := writeCSV(t, "mostly_missing,age,stroke\nNA,1,0\nNA,2,1\nNA,3,0\n7,4,1\n")
	table, err := LoadCSV(path, LoadOptions{LabelColumn: "stroke", MaxMissingRatio: 0.5})
	require.NoError(t, err)
	assert.Contains(t, table.Dropped, "mostly_missing")
	require.Len(t, table.Columns, 1)
	assert.Equal(t, "age", table.Columns[0].Name)
	require.Len(t, table.Rows[0], 1)
}

func TestEncode(t *testing.T) {
	path := writeCSV(t, sample)
	table, err := LoadCSV(path, LoadOptions{LabelColumn: "stroke", DropColumns: []string{"id"}})
	require.NoError(t, err)

	X, names, y, err := table.Encode()
	require.NoError(t, err)

	// gender (2 levels) + age + bmi + smoking_status (3 levels)
	assert.Equal(t, []string{
		"gender=Female", "gender=Male", "age", "bmi",
		"smoking_status=Unknown", "smoking_status=never smoked", "smoking_status=smokes",
	}, names)
	assert.Equal(t, []int{1, 1, 0, 0, 0}, y)
	require.Len(t, X, 5)

	// Row 0: Male, 67, 36.6, smokes.
	assert.Equal(t, []float64{0, 1, 67, 36.6, 0, 0, 1}, X[0])
	// Row 1 has a missing bmi: NaN for the imputer.
	assert.True(t, math.IsNaN(X[1][3]))
}

func TestSummarize(t *testing.T) {
	path := writeCSV(t, sample)
	table, err := LoadCSV(path, LoadOptions{LabelColumn: "stroke", DropColumns: []string{"id"}})
	require.NoError(t, err)

	s := Summarize(table)
	assert.Equal(t, 5, s.Rows)
	assert.Equal(t, 2, s.Positive)
	assert.Equal(t, 3, s.Negative)

	require.Len(t, s.Numeric, 2)
	age := s.Numeric[0]
	assert.Equal(t, "age", age.Name)
	assert.Equal(t, 5, age.N)
	assert.Zero(t, age.Missing)
	assert.InDelta(t, 67.2, age.Mean, 1e-9)

	bmi := s.Numeric[1]
	assert.Equal(t, 4, bmi.N)
	assert.Equal(t, 1, bmi.Missing)

	require.Len(t, s.Categorical, 2)
	smoking := s.Categorical[1]
	assert.Equal(t, "smoking_status", smoking.Name)
	require.NotEmpty(t, smoking.Levels)
	assert.Equal(t, "never smoked", smoking.Levels[0].Level)
	assert.Equal(t, 2, smoking.Levels[0].Count)

	require.Len(t, s.Correlation, 2)
	assert.Equal(t, 1.0, s.Correlation[0][0])
	assert.Equal(t, s.Correlation[0][1], s.Correlation[1][0])
}
