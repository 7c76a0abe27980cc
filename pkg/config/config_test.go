package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "stroke", cfg.Data.Label)
	assert.Contains(t, cfg.Data.DropColumns, "id")
	assert.Equal(t, 10, cfg.CV.Folds)
	assert.Equal(t, 3, cfg.CV.Repeats)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  path: /tmp/stroke.csv
cv:
  folds: 5
  repeats: 1
seed: 7
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stroke.csv", cfg.Data.Path)
	assert.Equal(t, 5, cfg.CV.Folds)
	assert.Equal(t, 1, cfg.CV.Repeats)
	assert.Equal(t, int64(7), cfg.Seed)
	// Untouched sections keep their defaults.
	assert.Equal(t, "stroke", cfg.Data.Label)
	assert.NotEmpty(t, cfg.Models.ElasticNet.Alphas)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().CV, cfg.CV)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("STROKEML_DATA", "/data/override.csv")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/override.csv", cfg.Data.Path)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/does/not/exist.yaml")
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cv: ["), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("split:\n  test_fraction: 2\n"), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "test_fraction")
	})
}

func TestValidateGrids(t *testing.T) {
	cfg := Default()
	cfg.Models.SVMRBF.Sigmas = nil
	assert.ErrorContains(t, cfg.Validate(), "svm_rbf")

	cfg = Default()
	cfg.Models.Forest.Trees = 0
	assert.ErrorContains(t, cfg.Validate(), "random_forest")
}
