// Package experiment runs the study end to end: load, summarize, split,
// sweep the five model families through the shared cross-validation
// harness, and evaluate the winner on the held-out split.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"strokeml/pkg/config"
	"strokeml/pkg/dataprep"
	"strokeml/pkg/dataset"
	"strokeml/pkg/model"
	"strokeml/pkg/resample"
	"strokeml/pkg/tune"
)

// FamilyResult is one model family's cross-validation sweep plus its
// held-out performance after refitting the best candidate.
type FamilyResult struct {
	Family  string
	CV      *tune.Result
	TestAUC float64
}

// RunResult is everything the report renders.
type RunResult struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	DataPath  string
	Summary   *dataset.Summary
	Dropped   []string
	Features  []string
	TrainRows int
	TestRows  int

	Families   []FamilyResult
	BestFamily string
	BestParams string
	Confusion  model.ConfusionMatrix
}

// Run executes the full study described by cfg.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*RunResult, error) {
	if cfg.Data.Path == "" {
		return nil, errors.New("experiment: no data path configured")
	}
	res := &RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		DataPath:  cfg.Data.Path,
	}
	logger.Info("run starting", zap.String("run_id", res.ID), zap.String("data", cfg.Data.Path))

	table, err := dataset.LoadCSV(cfg.Data.Path, dataset.LoadOptions{
		LabelColumn:     cfg.Data.Label,
		DropColumns:     cfg.Data.DropColumns,
		MissingTokens:   cfg.Data.MissingTokens,
		MaxMissingRatio: cfg.Data.MaxMissingRatio,
	})
	if err != nil {
		return nil, err
	}
	res.Dropped = table.Dropped
	for _, name := range table.Dropped {
		logger.Info("column dropped at load", zap.String("column", name))
	}
	res.Summary = dataset.Summarize(table)
	logger.Info("data loaded",
		zap.Int("rows", table.NumRows()),
		zap.Int("columns", len(table.Columns)),
		zap.Int("positive", res.Summary.Positive),
		zap.Int("negative", res.Summary.Negative))

	X, names, y, err := table.Encode()
	if err != nil {
		return nil, err
	}
	res.Features = names

	rng := rand.New(rand.NewSource(cfg.Seed))
	trainIdx, testIdx, err := resample.TrainTestSplit(y, cfg.Split.TestFraction, rng)
	if err != nil {
		return nil, err
	}
	xTrain, yTrain := resample.Take(X, y, trainIdx)
	xTest, yTest := resample.Take(X, y, testIdx)
	res.TrainRows, res.TestRows = len(trainIdx), len(testIdx)
	logger.Info("split complete", zap.Int("train", len(trainIdx)), zap.Int("test", len(testIdx)))

	// Final preprocessing: fit on the training split only, applied to the
	// held-out rows for evaluation. The harness refits its own chain
	// inside every fold.
	pre := dataprep.Standard(cfg.CV.ImputeK)
	xTrainP, err := pre.FitTransform(xTrain)
	if err != nil {
		return nil, fmt.Errorf("experiment: preprocessing training split: %w", err)
	}
	xTestP := pre.Transform(xTest)

	scheme := tune.Scheme{
		Folds:   cfg.CV.Folds,
		Repeats: cfg.CV.Repeats,
		Seed:    cfg.Seed,
		Workers: cfg.CV.Workers,
	}
	newPre := func() *dataprep.Preprocessor { return dataprep.Standard(cfg.CV.ImputeK) }

	grids := []tune.Grid{
		tune.ElasticNetGrid(cfg.Models.ElasticNet.Alphas, cfg.Models.ElasticNet.Lambdas),
		tune.MARSGrid(cfg.Models.MARS.Degrees, cfg.Models.MARS.MaxTerms),
		tune.LinearSVMGrid(cfg.Models.SVMLinear.Costs),
		tune.RBFSVMGrid(cfg.Models.SVMRBF.Costs, cfg.Models.SVMRBF.Sigmas),
		tune.ForestGrid(cfg.Models.Forest.Mtry, cfg.Models.Forest.Trees),
	}

	bestCV := -1.0
	var bestProba []float64
	for gi, grid := range grids {
		sweep, err := tune.CrossValidate(ctx, xTrain, yTrain, grid, scheme, newPre, logger)
		if err != nil {
			return nil, err
		}
		best := sweep.Best()

		// Refit the winning candidate on the full training split and
		// score the held-out rows.
		clf := grid.Candidates[sweep.BestIndex].Build(cfg.Seed + int64(gi))
		if err := clf.Fit(xTrainP, yTrain); err != nil {
			return nil, fmt.Errorf("experiment: refitting %s: %w", grid.Family, err)
		}
		proba := clf.PredictProba(xTestP)
		testAUC, err := model.AUC(proba, yTest)
		if err != nil {
			return nil, fmt.Errorf("experiment: held-out AUC for %s: %w", grid.Family, err)
		}
		res.Families = append(res.Families, FamilyResult{Family: grid.Family, CV: sweep, TestAUC: testAUC})
		logger.Info("family evaluated",
			zap.String("family", grid.Family),
			zap.String("best", best.Desc),
			zap.Float64("cv_auc", best.Mean),
			zap.Float64("test_auc", testAUC))

		if best.Mean > bestCV {
			bestCV = best.Mean
			bestProba = proba
			res.BestFamily = grid.Family
			res.BestParams = best.Desc
		}
	}

	cm, err := model.NewConfusionMatrix(yTest, model.PredictLabels(bestProba, 0.5))
	if err != nil {
		return nil, fmt.Errorf("experiment: %w", err)
	}
	res.Confusion = cm
	res.FinishedAt = time.Now()
	logger.Info("run finished",
		zap.String("run_id", res.ID),
		zap.String("best_family", res.BestFamily),
		zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

// Explore loads the data and returns only the exploratory summary.
func Explore(cfg *config.Config, logger *zap.Logger) (*dataset.Summary, error) {
	if cfg.Data.Path == "" {
		return nil, errors.New("experiment: no data path configured")
	}
	table, err := dataset.LoadCSV(cfg.Data.Path, dataset.LoadOptions{
		LabelColumn:     cfg.Data.Label,
		DropColumns:     cfg.Data.DropColumns,
		MissingTokens:   cfg.Data.MissingTokens,
		MaxMissingRatio: cfg.Data.MaxMissingRatio,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("data loaded", zap.Int("rows", table.NumRows()), zap.Int("columns", len(table.Columns)))
	return dataset.Summarize(table), nil
}
