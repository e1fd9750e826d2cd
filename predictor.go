package fare

import (
	"errors"
	"fmt"
	"math"
)

// Model is a trained regression model
type Model interface {
	Predict(features []float64) (float64, error)
}

// Scaler rescales the numeric features listed by ScaledFeatureNames
type Scaler interface {
	Transform(values []float64) ([]float64, error)
}

// Schema is implemented by models and scalers that know the feature names they were fit on
type Schema interface {
	FeatureNames() []string
}

// Stage is the step of a prediction that failed
type Stage string

const (
	StageBuild     Stage = "build"
	StageScale     Stage = "scale"
	StageInference Stage = "inference"
)

var (
	ErrPredictionFailed = errors.New("prediction failed")
	ErrSchemaMismatch   = errors.New("feature schema mismatch")
)

// PredictionError tells which stage of a prediction failed
type PredictionError struct {
	Stage Stage
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrPredictionFailed, e.Stage, e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// Is makes every PredictionError match ErrPredictionFailed
func (e *PredictionError) Is(target error) bool {
	return target == ErrPredictionFailed
}

// Predictor estimates fares with a model and scaler loaded once at startup.
// It holds no mutable state and is safe for concurrent use.
type Predictor struct {
	model  Model
	scaler Scaler
}

// NewPredictor creates a Predictor. Models and scalers implementing Schema must list
// exactly the feature names, in order, that BuildFeatures produces and the scaler consumes.
func NewPredictor(model Model, scaler Scaler) (*Predictor, error) {
	switch {
	case model == nil:
		return nil, errors.New("model is required")
	case scaler == nil:
		return nil, errors.New("scaler is required")
	}

	if s, ok := model.(Schema); ok {
		if err := CheckSchema(FeatureNames(), s.FeatureNames()); err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
	}
	if s, ok := scaler.(Schema); ok {
		if err := CheckSchema(ScaledFeatureNames(), s.FeatureNames()); err != nil {
			return nil, fmt.Errorf("scaler: %w", err)
		}
	}

	return &Predictor{
		model:  model,
		scaler: scaler,
	}, nil
}

// CheckSchema returns ErrSchemaMismatch unless got lists the expected names in the same order
func CheckSchema(expected, got []string) error {
	if len(expected) != len(got) {
		return fmt.Errorf("%w: expected %d features, got %d", ErrSchemaMismatch, len(expected), len(got))
	}
	for i := range expected {
		if expected[i] != got[i] {
			return fmt.Errorf("%w: feature %d is %q, expected %q", ErrSchemaMismatch, i, got[i], expected[i])
		}
	}
	return nil
}

// Features returns the scaled feature vector the model is fed with for the trip
func (p *Predictor) Features(trip Trip) (FeatureVector, error) {
	v, err := BuildFeatures(trip)
	if err != nil {
		return v, &PredictionError{Stage: StageBuild, Err: err}
	}

	numeric := make([]float64, len(scaledIdx))
	for i, idx := range scaledIdx {
		numeric[i] = v[idx]
	}

	scaled, err := p.scaler.Transform(numeric)
	if err != nil {
		return v, &PredictionError{Stage: StageScale, Err: err}
	}
	if len(scaled) != len(scaledIdx) {
		return v, &PredictionError{
			Stage: StageScale,
			Err:   fmt.Errorf("scaler returned %d values, expected %d", len(scaled), len(scaledIdx)),
		}
	}

	for i, idx := range scaledIdx {
		v[idx] = scaled[i]
	}
	return v, nil
}

// Predict estimates the fare of the trip
func (p *Predictor) Predict(trip Trip) (Price, error) {
	v, err := p.Features(trip)
	if err != nil {
		return 0, err
	}

	fare, err := p.model.Predict(v.Slice())
	if err != nil {
		return 0, &PredictionError{Stage: StageInference, Err: err}
	}
	if math.IsNaN(fare) || math.IsInf(fare, 0) {
		return 0, &PredictionError{Stage: StageInference, Err: fmt.Errorf("model returned %v", fare)}
	}

	return Price(fare), nil
}
