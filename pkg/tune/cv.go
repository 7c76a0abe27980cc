package tune

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"strokeml/pkg/dataprep"
	"strokeml/pkg/model"
	"strokeml/pkg/resample"
)

// Scheme fixes the resampling plan for a sweep.
type Scheme struct {
	Folds   int
	Repeats int
	Seed    int64
	Workers int // 0 => GOMAXPROCS
}

// CandidateResult aggregates one candidate's fold AUCs.
type CandidateResult struct {
	Desc    string
	Params  map[string]float64
	AUCs    []float64 // one per successful resample
	Skipped int       // degenerate resamples (single-class test fold)
	Mean    float64
	Std     float64
}

// Result is a completed sweep over one family's grid.
type Result struct {
	Family     string
	Candidates []CandidateResult
	BestIndex  int
}

// Best returns the winning candidate's aggregate.
func (r *Result) Best() CandidateResult { return r.Candidates[r.BestIndex] }

// NewPreprocessor builds the per-fold preprocessing chain. A nil factory
// trains on the raw matrix.
type NewPreprocessor func() *dataprep.Preprocessor

type foldData struct {
	xTrain, xTest [][]float64
	yTrain, yTest []int
}

// CrossValidate scores every candidate in the grid with repeated stratified
// k-fold AUC. The preprocessing chain is fit inside each fold, so fold-test
// rows never leak into the imputation or scaling statistics.
func CrossValidate(ctx context.Context, X [][]float64, y []int, grid Grid, scheme Scheme, newPre NewPreprocessor, logger *zap.Logger) (*Result, error) {
	if len(grid.Candidates) == 0 {
		return nil, errors.New("tune: empty grid")
	}
	if scheme.Folds < 2 {
		return nil, errors.New("tune: need at least 2 folds")
	}
	if scheme.Repeats < 1 {
		return nil, errors.New("tune: need at least 1 repeat")
	}
	workers := scheme.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rng := newRand(scheme.Seed)
	repeated, err := resample.RepeatedKFold(y, scheme.Folds, scheme.Repeats, rng)
	if err != nil {
		return nil, fmt.Errorf("tune: %w", err)
	}

	// Preprocess each resample once; every candidate shares the fold data.
	var folds []foldData
	for _, rep := range repeated {
		for _, f := range rep {
			xTr, yTr := resample.Take(X, y, f.Train)
			xTe, yTe := resample.Take(X, y, f.Test)
			if newPre != nil {
				pre := newPre()
				xTr, err = pre.FitTransform(xTr)
				if err != nil {
					return nil, fmt.Errorf("tune: preprocessing fold: %w", err)
				}
				xTe = pre.Transform(xTe)
			}
			folds = append(folds, foldData{xTrain: xTr, xTest: xTe, yTrain: yTr, yTest: yTe})
		}
	}

	type cell struct {
		auc float64
		ok  bool
	}
	grid2 := make([][]cell, len(grid.Candidates))
	for c := range grid2 {
		grid2[c] = make([]cell, len(folds))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c, cand := range grid.Candidates {
		for f := range folds {
			c, f, cand := c, f, cand
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				fd := folds[f]
				seed := scheme.Seed + int64(c)*1009 + int64(f)*31
				clf := cand.Build(seed)
				if err := clf.Fit(fd.xTrain, fd.yTrain); err != nil {
					return fmt.Errorf("tune: %s (%s) fold %d: %w", grid.Family, cand.Desc, f, err)
				}
				auc, err := model.AUC(clf.PredictProba(fd.xTest), fd.yTest)
				if err != nil {
					// Single-class fold: count it, do not poison the mean.
					grid2[c][f] = cell{ok: false}
					return nil
				}
				grid2[c][f] = cell{auc: auc, ok: true}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Family: grid.Family}
	for c, cand := range grid.Candidates {
		cr := CandidateResult{Desc: cand.Desc, Params: cand.Params}
		for _, cl := range grid2[c] {
			if !cl.ok {
				cr.Skipped++
				continue
			}
			cr.AUCs = append(cr.AUCs, cl.auc)
		}
		if len(cr.AUCs) == 0 {
			return nil, fmt.Errorf("tune: %s (%s): every resample was degenerate", grid.Family, cand.Desc)
		}
		cr.Mean = stat.Mean(cr.AUCs, nil)
		if len(cr.AUCs) > 1 {
			cr.Std = stat.StdDev(cr.AUCs, nil)
		}
		res.Candidates = append(res.Candidates, cr)
		logger.Debug("candidate scored",
			zap.String("family", grid.Family),
			zap.String("params", cand.Desc),
			zap.Float64("mean_auc", cr.Mean),
			zap.Float64("sd_auc", cr.Std),
			zap.Int("skipped", cr.Skipped))
	}

	for c, cr := range res.Candidates {
		if cr.Mean > res.Candidates[res.BestIndex].Mean {
			res.BestIndex = c
		}
	}
	best := res.Best()
	logger.Info("grid sweep complete",
		zap.String("family", grid.Family),
		zap.Int("candidates", len(res.Candidates)),
		zap.String("best", best.Desc),
		zap.Float64("best_mean_auc", best.Mean))
	return res, nil
}
