// Package artifact loads the trained model and scaler exported as JSON documents.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrLoad wraps every failure to read or validate an artifact
var ErrLoad = errors.New("artifact load failed")

const (
	KindStandardScaler   = "standard_scaler"
	KindLinear           = "linear"
	KindGradientBoosting = "gradient_boosting"
)

// Model is a loaded regression model
type Model interface {
	Predict(features []float64) (float64, error)
	FeatureNames() []string
}

// header is the part shared by every artifact document
type header struct {
	Kind     string   `json:"kind"`
	Features []string `json:"features"`
}

// LoadModel reads a model artifact from path
func LoadModel(path string) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoad, err)
	}
	defer f.Close()

	m, err := ParseModel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseModel decodes a linear or gradient boosting model
func ParseModel(r io.Reader) (Model, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoad, err)
	}

	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("%w: decode: %s", ErrLoad, err)
	}

	var m interface {
		Model
		validate() error
	}
	switch h.Kind {
	case KindLinear:
		m = &Linear{}
	case KindGradientBoosting:
		m = &GradientBoosting{}
	default:
		return nil, fmt.Errorf("%w: unknown model kind %q", ErrLoad, h.Kind)
	}

	if err := json.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %s", ErrLoad, h.Kind, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrLoad, h.Kind, err)
	}
	return m, nil
}

// LoadScaler reads a scaler artifact from path
func LoadScaler(path string) (*StandardScaler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoad, err)
	}
	defer f.Close()

	s, err := ParseScaler(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScaler decodes a standard scaler
func ParseScaler(r io.Reader) (*StandardScaler, error) {
	var s StandardScaler
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: decode: %s", ErrLoad, err)
	}
	if s.Kind != KindStandardScaler {
		return nil, fmt.Errorf("%w: unknown scaler kind %q", ErrLoad, s.Kind)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrLoad, s.Kind, err)
	}
	return &s, nil
}

func checkWidth(features []float64, expected int) error {
	if len(features) != expected {
		return fmt.Errorf("expected %d features, got %d", expected, len(features))
	}
	return nil
}
