package artifact

import (
	"errors"
	"fmt"
)

// Linear is a linear regression: intercept + sum(coefficients[i] * x[i])
type Linear struct {
	header
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (m *Linear) FeatureNames() []string {
	return append([]string(nil), m.Features...)
}

func (m *Linear) Predict(features []float64) (float64, error) {
	if err := checkWidth(features, len(m.Coefficients)); err != nil {
		return 0, err
	}

	y := m.Intercept
	for i, x := range features {
		y += m.Coefficients[i] * x
	}
	return y, nil
}

func (m *Linear) validate() error {
	switch {
	case len(m.Coefficients) == 0:
		return errors.New("coefficients are empty")
	case len(m.Features) != 0 && len(m.Features) != len(m.Coefficients):
		return fmt.Errorf("%d features for %d coefficients", len(m.Features), len(m.Coefficients))
	}
	return nil
}
