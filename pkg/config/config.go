// Package config holds the YAML experiment configuration. Defaults run the
// full stroke study; a config file overrides only what it names.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level experiment configuration.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	Split  SplitConfig  `yaml:"split"`
	CV     CVConfig     `yaml:"cv"`
	Models ModelsConfig `yaml:"models"`
	Seed   int64        `yaml:"seed"`
}

// DataConfig describes the input CSV.
type DataConfig struct {
	Path            string   `yaml:"path"`
	Label           string   `yaml:"label"`
	DropColumns     []string `yaml:"drop_columns"`
	MissingTokens   []string `yaml:"missing_tokens"`
	MaxMissingRatio float64  `yaml:"max_missing_ratio"`
}

// SplitConfig controls the held-out split.
type SplitConfig struct {
	TestFraction float64 `yaml:"test_fraction"`
}

// CVConfig controls the resampling harness and the per-fold preprocessing.
type CVConfig struct {
	Folds   int `yaml:"folds"`
	Repeats int `yaml:"repeats"`
	Workers int `yaml:"workers"`
	ImputeK int `yaml:"impute_k"`
}

// ModelsConfig carries the per-family hyperparameter grids.
type ModelsConfig struct {
	ElasticNet ElasticNetGrid `yaml:"elastic_net"`
	MARS       MARSGrid       `yaml:"mars"`
	SVMLinear  SVMLinearGrid  `yaml:"svm_linear"`
	SVMRBF     SVMRBFGrid     `yaml:"svm_rbf"`
	Forest     ForestGrid     `yaml:"random_forest"`
}

type ElasticNetGrid struct {
	Alphas  []float64 `yaml:"alphas"`
	Lambdas []float64 `yaml:"lambdas"`
}

type MARSGrid struct {
	Degrees  []int `yaml:"degrees"`
	MaxTerms []int `yaml:"max_terms"`
}

type SVMLinearGrid struct {
	Costs []float64 `yaml:"costs"`
}

type SVMRBFGrid struct {
	Costs  []float64 `yaml:"costs"`
	Sigmas []float64 `yaml:"sigmas"`
}

type ForestGrid struct {
	Mtry  []int `yaml:"mtry"`
	Trees int   `yaml:"trees"`
}

// Default returns the configuration the study runs with when no file is
// given: the stroke CSV schema and the standard grids.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Label:           "stroke",
			DropColumns:     []string{"id"},
			MissingTokens:   []string{"", "NA", "N/A", "NaN"},
			MaxMissingRatio: 0.5,
		},
		Split: SplitConfig{TestFraction: 0.25},
		CV:    CVConfig{Folds: 10, Repeats: 3, ImputeK: 5},
		Models: ModelsConfig{
			ElasticNet: ElasticNetGrid{
				Alphas:  []float64{0.1, 0.55, 1.0},
				Lambdas: []float64{0.0001, 0.001, 0.01, 0.1},
			},
			MARS: MARSGrid{
				Degrees:  []int{1, 2},
				MaxTerms: []int{5, 10, 15},
			},
			SVMLinear: SVMLinearGrid{
				Costs: []float64{0.25, 0.5, 1, 2, 4},
			},
			SVMRBF: SVMRBFGrid{
				Costs:  []float64{0.25, 0.5, 1, 2, 4},
				Sigmas: []float64{0.01, 0.05, 0.1},
			},
			Forest: ForestGrid{
				Mtry:  []int{2, 4, 8, 16},
				Trees: 500,
			},
		},
		Seed: 42,
	}
}

// Load reads a YAML file over the defaults and validates the result. An
// empty path returns the defaults (still env-overridden and validated).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("STROKEML_DATA"); p != "" {
		c.Data.Path = p
	}
}

// Validate checks the configuration is runnable.
func (c *Config) Validate() error {
	if c.Data.Label == "" {
		return errors.New("config: data.label is required")
	}
	if c.Split.TestFraction <= 0 || c.Split.TestFraction >= 1 {
		return errors.New("config: split.test_fraction must be in (0, 1)")
	}
	if c.CV.Folds < 2 {
		return errors.New("config: cv.folds must be at least 2")
	}
	if c.CV.Repeats < 1 {
		return errors.New("config: cv.repeats must be at least 1")
	}
	if c.CV.ImputeK < 1 {
		return errors.New("config: cv.impute_k must be at least 1")
	}
	m := c.Models
	switch {
	case len(m.ElasticNet.Alphas) == 0 || len(m.ElasticNet.Lambdas) == 0:
		return errors.New("config: models.elastic_net grid is empty")
	case len(m.MARS.Degrees) == 0 || len(m.MARS.MaxTerms) == 0:
		return errors.New("config: models.mars grid is empty")
	case len(m.SVMLinear.Costs) == 0:
		return errors.New("config: models.svm_linear grid is empty")
	case len(m.SVMRBF.Costs) == 0 || len(m.SVMRBF.Sigmas) == 0:
		return errors.New("config: models.svm_rbf grid is empty")
	case len(m.Forest.Mtry) == 0 || m.Forest.Trees < 1:
		return errors.New("config: models.random_forest grid is empty")
	}
	return nil
}
