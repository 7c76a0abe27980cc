// Package report renders a run as a plain markdown document: the same
// numbers the original analysis plotted, in tables.
package report

import (
	"fmt"
	"io"
	"time"

	"strokeml/pkg/dataset"
	"strokeml/pkg/experiment"
	"strokeml/pkg/stats"
)

// Write renders the full run report.
func Write(w io.Writer, res *experiment.RunResult) error {
	p := &printer{w: w}
	p.f("# Stroke model benchmark\n\n")
	p.f("- run: `%s`\n", res.ID)
	p.f("- data: `%s`\n", res.DataPath)
	p.f("- started: %s\n", res.StartedAt.Format("2006-01-02 15:04:05"))
	p.f("- elapsed: %s\n", res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))
	p.f("- train rows: %d, test rows: %d, features: %d\n\n", res.TrainRows, res.TestRows, len(res.Features))
	if len(res.Dropped) > 0 {
		p.f("Dropped columns: %v\n\n", res.Dropped)
	}

	if res.Summary != nil {
		writeSummary(p, res.Summary)
	}

	p.f("## Model comparison (repeated CV, AUC)\n\n")
	p.f("| family | best parameters | CV mean | CV sd | CV min | CV max | test AUC |\n")
	p.f("|---|---|---|---|---|---|---|\n")
	for _, fam := range res.Families {
		best := fam.CV.Best()
		min, max := stats.MinMax(best.AUCs)
		p.f("| %s | %s | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
			fam.Family, best.Desc, best.Mean, best.Std, min, max, fam.TestAUC)
	}
	p.f("\n")

	p.f("## Resample distribution (best candidate per family)\n\n")
	p.f("| family | min | p25 | median | mean | p75 | max | resamples | skipped |\n")
	p.f("|---|---|---|---|---|---|---|---|---|\n")
	for _, fam := range res.Families {
		best := fam.CV.Best()
		min, max := stats.MinMax(best.AUCs)
		p.f("| %s | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %d | %d |\n",
			fam.Family, min,
			stats.Quantile(best.AUCs, 0.25),
			stats.Median(best.AUCs),
			best.Mean,
			stats.Quantile(best.AUCs, 0.75),
			max, len(best.AUCs), best.Skipped)
	}
	p.f("\n")

	p.f("## Held-out confusion matrix — %s (%s)\n\n", res.BestFamily, res.BestParams)
	cm := res.Confusion
	p.f("| | predicted 0 | predicted 1 |\n")
	p.f("|---|---|---|\n")
	p.f("| actual 0 | %d | %d |\n", cm.TN, cm.FP)
	p.f("| actual 1 | %d | %d |\n\n", cm.FN, cm.TP)
	p.f("- accuracy: %.4f\n", cm.Accuracy())
	p.f("- kappa: %.4f\n", cm.Kappa())
	p.f("- sensitivity: %.4f\n", cm.Sensitivity())
	p.f("- specificity: %.4f\n", cm.Specificity())
	p.f("- PPV: %.4f, NPV: %.4f\n", cm.PPV(), cm.NPV())
	p.f("- prevalence: %.4f\n", cm.Prevalence())
	return p.err
}

// WriteSummary renders only the exploratory summary.
func WriteSummary(w io.Writer, s *dataset.Summary) error {
	p := &printer{w: w}
	p.f("# Dataset summary\n\n")
	writeSummary(p, s)
	return p.err
}

func writeSummary(p *printer, s *dataset.Summary) {
	p.f("## Outcome\n\n")
	p.f("`%s`: %d positive / %d negative (%.2f%% prevalence) over %d rows\n\n",
		s.LabelName, s.Positive, s.Negative,
		100*float64(s.Positive)/float64(s.Positive+s.Negative), s.Rows)

	if len(s.Numeric) > 0 {
		p.f("## Numeric predictors\n\n")
		p.f("| column | n | missing | mean | sd | min | p25 | median | p75 | max | skew |\n")
		p.f("|---|---|---|---|---|---|---|---|---|---|---|\n")
		for _, ns := range s.Numeric {
			p.f("| %s | %d | %d | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
				ns.Name, ns.N, ns.Missing, ns.Mean, ns.Std, ns.Min, ns.P25, ns.Median, ns.P75, ns.Max, ns.Skew)
		}
		p.f("\n")
	}

	if len(s.Categorical) > 0 {
		p.f("## Categorical predictors\n\n")
		for _, cs := range s.Categorical {
			p.f("**%s** (missing: %d): ", cs.Name, cs.Missing)
			for i, lv := range cs.Levels {
				if i > 0 {
					p.f(", ")
				}
				p.f("%s=%d", lv.Level, lv.Count)
			}
			p.f("\n\n")
		}
	}

	if len(s.NumericNames) > 1 {
		p.f("## Numeric correlations\n\n")
		p.f("| |")
		for _, name := range s.NumericNames {
			p.f(" %s |", name)
		}
		p.f("\n|---|")
		for range s.NumericNames {
			p.f("---|")
		}
		p.f("\n")
		for a, name := range s.NumericNames {
			p.f("| %s |", name)
			for b := range s.NumericNames {
				p.f(" %.3f |", s.Correlation[a][b])
			}
			p.f("\n")
		}
		p.f("\n")
	}
}

// printer accumulates the first write error so the table code stays flat.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) f(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
