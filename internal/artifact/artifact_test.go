package artifact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModel(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		check func(m Model, err error)
	}{
		{
			name: "linear",
			path: "testdata/linear.json",
			check: func(m Model, err error) {
				require.NoError(t, err)
				assert.IsType(t, &Linear{}, m)
				assert.Equal(t, []string{"a", "b", "c"}, m.FeatureNames())
			},
		},
		{
			name: "gradient boosting",
			path: "testdata/boosting.json",
			check: func(m Model, err error) {
				require.NoError(t, err)
				assert.IsType(t, &GradientBoosting{}, m)
				assert.Len(t, m.FeatureNames(), 14)
			},
		},
		{
			name: "missing file - error",
			path: "testdata/missing.json",
			check: func(m Model, err error) {
				assert.ErrorIs(t, err, ErrLoad)
				assert.Nil(t, m)
			},
		},
		{
			name: "corrupt file - error",
			path: "testdata/corrupt.json",
			check: func(m Model, err error) {
				assert.ErrorIs(t, err, ErrLoad)
				assert.Contains(t, err.Error(), "testdata/corrupt.json")
			},
		},
		{
			name: "scaler is not a model - error",
			path: "testdata/scaler.json",
			check: func(m Model, err error) {
				assert.ErrorIs(t, err, ErrLoad)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.check(LoadModel(test.path))
		})
	}
}

func TestParseModel_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "no kind", doc: `{"coefficients": [1]}`},
		{name: "no coefficients", doc: `{"kind": "linear"}`},
		{name: "features do not match coefficients", doc: `{"kind": "linear", "features": ["a"], "coefficients": [1, 2]}`},
		{name: "no trees", doc: `{"kind": "gradient_boosting", "trees": []}`},
		{name: "empty tree", doc: `{"kind": "gradient_boosting", "trees": [{"nodes": []}]}`},
		{
			name: "child points backwards",
			doc: `{"kind": "gradient_boosting", "trees": [{"nodes": [
				{"feature": 0, "threshold": 1, "left": 1, "right": 2},
				{"feature": 0, "threshold": 1, "left": 0, "right": 2},
				{"left": -1, "value": 1}
			]}]}`,
		},
		{
			name: "child out of range",
			doc: `{"kind": "gradient_boosting", "trees": [{"nodes": [
				{"feature": 0, "threshold": 1, "left": 1, "right": 5},
				{"left": -1, "value": 1}
			]}]}`,
		},
		{
			name: "split on unknown feature",
			doc: `{"kind": "gradient_boosting", "features": ["a"], "trees": [{"nodes": [
				{"feature": 3, "threshold": 1, "left": 1, "right": 2},
				{"left": -1, "value": 1},
				{"left": -1, "value": 2}
			]}]}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseModel(strings.NewReader(test.doc))
			assert.ErrorIs(t, err, ErrLoad)
		})
	}
}

func TestLinear_Predict(t *testing.T) {
	m, err := LoadModel("testdata/linear.json")
	require.NoError(t, err)

	y, err := m.Predict([]float64{1, 2, 4})
	require.NoError(t, err)
	// 3 + 2*1 - 1*2 + 0.5*4
	assert.Equal(t, float64(5), y)

	_, err = m.Predict([]float64{1, 2})
	assert.NotNil(t, err)
}

func TestGradientBoosting_Predict(t *testing.T) {
	m, err := LoadModel("testdata/boosting.json")
	require.NoError(t, err)

	features := func(distance, rush, weekend float64) []float64 {
		f := make([]float64, 14)
		f[0], f[4], f[6] = distance, rush, weekend
		return f
	}

	tests := []struct {
		name     string
		features []float64
		expected float64
	}{
		{name: "long weekend trip", features: features(0.6, 0, 1), expected: 17.5 + 0.1*(20-1)},
		{name: "short rush hour weekday trip", features: features(0.2, 1, 0), expected: 17.5 + 0.1*(-3+1.5)},
		{name: "short quiet weekday trip", features: features(0.5, 0, 0), expected: 17.5 + 0.1*(-6+1.5)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			y, err := m.Predict(test.features)
			require.NoError(t, err)
			assert.InDelta(t, test.expected, y, 1e-9)
		})
	}

	_, err = m.Predict(make([]float64, 3))
	assert.NotNil(t, err)
}

func TestGradientBoosting_PredictWithoutFeatureNames(t *testing.T) {
	m, err := ParseModel(strings.NewReader(`{"kind": "gradient_boosting", "init": 1, "learning_rate": 1, "trees": [{"nodes": [
		{"feature": 2, "threshold": 0, "left": 1, "right": 2},
		{"left": -1, "value": 1},
		{"left": -1, "value": 2}
	]}]}`))
	require.NoError(t, err)

	y, err := m.Predict([]float64{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, float64(3), y)

	_, err = m.Predict([]float64{0})
	assert.NotNil(t, err)
}

func TestLoadScaler(t *testing.T) {
	s, err := LoadScaler("testdata/scaler.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"trip_distance", "passenger_count", "pickup_hour"}, s.FeatureNames())

	out, err := s.Transform([]float64{7.1, 2.8, 8.2})
	require.NoError(t, err)
	assert.InDelta(t, 1, out[0], 1e-9)
	assert.InDelta(t, 1, out[1], 1e-9)
	assert.InDelta(t, -1, out[2], 1e-9)

	_, err = s.Transform([]float64{1, 2})
	assert.NotNil(t, err)

	_, err = LoadScaler("testdata/linear.json")
	assert.ErrorIs(t, err, ErrLoad)

	_, err = LoadScaler("testdata/missing.json")
	assert.ErrorIs(t, err, ErrLoad)
}

func TestStandardScaler_ZeroScale(t *testing.T) {
	s, err := ParseScaler(strings.NewReader(`{"kind": "standard_scaler", "mean": [1, 2], "scale": [0, 2]}`))
	require.NoError(t, err)

	out, err := s.Transform([]float64{4, 6})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2}, out)
}

func TestParseScaler_Invalid(t *testing.T) {
	docs := []string{
		`{"kind": "standard_scaler", "mean": [], "scale": []}`,
		`{"kind": "standard_scaler", "mean": [1, 2], "scale": [1]}`,
		`{"kind": "standard_scaler", "features": ["a"], "mean": [1, 2], "scale": [1, 1]}`,
		`{"kind": "minmax_scaler", "mean": [1], "scale": [1]}`,
		`not json`,
	}
	for _, doc := range docs {
		_, err := ParseScaler(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrLoad, doc)
	}
}
