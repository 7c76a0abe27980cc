package dataprep

// Transformer is a preprocessing step: fit on training rows, transform any
// matrix against those statistics.
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) [][]float64
}

// Preprocessor chains transformers in order. Fit runs each step on the
// output of the previous one, so downstream steps see upstream effects.
type Preprocessor struct {
	steps []Transformer
}

// NewPreprocessor builds a chain from the given steps.
func NewPreprocessor(steps ...Transformer) *Preprocessor {
	return &Preprocessor{steps: steps}
}

// Standard returns the study's default chain: k-NN imputation followed by
// centering and scaling.
func Standard(k int) *Preprocessor {
	return NewPreprocessor(NewKNNImputer(k), NewStandardScaler())
}

// Fit fits every step in order on the training matrix.
func (p *Preprocessor) Fit(X [][]float64) error {
	for _, step := range p.steps {
		if err := step.Fit(X); err != nil {
			return err
		}
		X = step.Transform(X)
	}
	return nil
}

// Transform applies every fitted step in order.
func (p *Preprocessor) Transform(X [][]float64) [][]float64 {
	for _, step := range p.steps {
		X = step.Transform(X)
	}
	return X
}

// FitTransform fits the chain on X and returns the transformed matrix.
func (p *Preprocessor) FitTransform(X [][]float64) ([][]float64, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X), nil
}
