package model

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// AUC computes the area under the ROC curve for scores against binary
// labels. Higher scores must indicate the positive class. Errors when the
// labels contain a single class, since AUC is undefined there.
func AUC(scores []float64, y []int) (float64, error) {
	if len(scores) == 0 || len(scores) != len(y) {
		return 0, errors.New("metrics: scores and labels length mismatch")
	}
	pos := 0
	for _, lab := range y {
		if lab == 1 {
			pos++
		}
	}
	if pos == 0 || pos == len(y) {
		return 0, errors.New("metrics: AUC undefined for a single-class sample")
	}

	// stat.ROC wants scores ascending with aligned class flags.
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })
	sorted := make([]float64, len(scores))
	classes := make([]bool, len(scores))
	for k, i := range idx {
		sorted[k] = scores[i]
		classes[k] = y[i] == 1
	}
	tpr, fpr, _ := stat.ROC(nil, sorted, classes, nil)
	// The curve is traced from high cutoffs down; the trapezoid sign only
	// reflects that orientation.
	return math.Abs(integrate.Trapezoidal(fpr, tpr)), nil
}

// ConfusionMatrix tallies binary predictions against truth.
type ConfusionMatrix struct {
	TP, FP, TN, FN int
}

// NewConfusionMatrix counts agreement between true and predicted labels.
func NewConfusionMatrix(yTrue, yPred []int) (ConfusionMatrix, error) {
	var cm ConfusionMatrix
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return cm, errors.New("metrics: label length mismatch")
	}
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			cm.TP++
		case yTrue[i] == 0 && yPred[i] == 1:
			cm.FP++
		case yTrue[i] == 0 && yPred[i] == 0:
			cm.TN++
		default:
			cm.FN++
		}
	}
	return cm, nil
}

// N returns the total count.
func (cm ConfusionMatrix) N() int { return cm.TP + cm.FP + cm.TN + cm.FN }

// Accuracy is the fraction of correct predictions.
func (cm ConfusionMatrix) Accuracy() float64 {
	return ratio(cm.TP+cm.TN, cm.N())
}

// Sensitivity is the true positive rate (recall).
func (cm ConfusionMatrix) Sensitivity() float64 {
	return ratio(cm.TP, cm.TP+cm.FN)
}

// Specificity is the true negative rate.
func (cm ConfusionMatrix) Specificity() float64 {
	return ratio(cm.TN, cm.TN+cm.FP)
}

// PPV is the positive predictive value (precision).
func (cm ConfusionMatrix) PPV() float64 {
	return ratio(cm.TP, cm.TP+cm.FP)
}

// NPV is the negative predictive value.
func (cm ConfusionMatrix) NPV() float64 {
	return ratio(cm.TN, cm.TN+cm.FN)
}

// Prevalence is the positive fraction of the truth.
func (cm ConfusionMatrix) Prevalence() float64 {
	return ratio(cm.TP+cm.FN, cm.N())
}

// Kappa is Cohen's kappa: agreement beyond chance.
func (cm ConfusionMatrix) Kappa() float64 {
	n := float64(cm.N())
	if n == 0 {
		return 0
	}
	po := cm.Accuracy()
	pPos := float64(cm.TP+cm.FN) / n * float64(cm.TP+cm.FP) / n
	pNeg := float64(cm.TN+cm.FP) / n * float64(cm.TN+cm.FN) / n
	pe := pPos + pNeg
	if pe == 1 {
		return 0
	}
	return (po - pe) / (1 - pe)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
