package artifact

import (
	"errors"
	"fmt"
	"math"
)

// StandardScaler centers and scales each feature: (x - mean) / scale
type StandardScaler struct {
	header
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) FeatureNames() []string {
	return append([]string(nil), s.Features...)
}

// Transform returns the scaled copy of values
func (s *StandardScaler) Transform(values []float64) ([]float64, error) {
	if err := checkWidth(values, len(s.Mean)); err != nil {
		return nil, err
	}

	out := make([]float64, len(values))
	for i, v := range values {
		scale := s.Scale[i]
		// constant features were fit with a zero variance
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

func (s *StandardScaler) validate() error {
	switch {
	case len(s.Mean) == 0:
		return errors.New("mean is empty")
	case len(s.Mean) != len(s.Scale):
		return fmt.Errorf("mean has %d values, scale has %d", len(s.Mean), len(s.Scale))
	case len(s.Features) != 0 && len(s.Features) != len(s.Mean):
		return fmt.Errorf("%d features for %d means", len(s.Features), len(s.Mean))
	}
	for i := range s.Mean {
		if !finite(s.Mean[i]) || !finite(s.Scale[i]) {
			return fmt.Errorf("feature %d has a non finite mean or scale", i)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
