package haversine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name     string
		lonlats  []float64
		distance float64
		delta    float64
	}{
		{
			name:     "ok",
			lonlats:  []float64{23.730235, 37.967349, 23.730235, 37.967348},
			distance: 0.000111194926,
			delta:    1e-9,
		},
		{
			name:     "same point",
			lonlats:  []float64{-73.9855, 40.7580, -73.9855, 40.7580},
			distance: 0,
		},
		{
			name:     "times square to wall street",
			lonlats:  []float64{-73.9855, 40.7580, -74.0060, 40.7128},
			distance: 5.3145,
			delta:    0.001,
		},
		{
			name:     "antipodal",
			lonlats:  []float64{0, 0, 180, 0},
			distance: 20015.0868,
			delta:    0.001,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			distance := Haversine(test.lonlats[0], test.lonlats[1], test.lonlats[2], test.lonlats[3])
			assert.InDelta(t, test.distance, distance, test.delta)
		})
	}
}

func TestHaversine_Properties(t *testing.T) {
	points := [][2]float64{
		{-73.9855, 40.7580},
		{-74.0060, 40.7128},
		{23.730235, 37.967349},
		{0, 0},
		{179.9, -89.9},
		{400, 100},
	}

	for _, p := range points {
		assert.Equal(t, float64(0), Haversine(p[0], p[1], p[0], p[1]), "zero distance for %v", p)
		for _, q := range points {
			d := Haversine(p[0], p[1], q[0], q[1])
			assert.GreaterOrEqual(t, d, float64(0))
			assert.InDelta(t, d, Haversine(q[0], q[1], p[0], p[1]), 1e-9, "symmetric for %v %v", p, q)
		}
	}
}

func TestHaversine_NaN(t *testing.T) {
	assert.True(t, math.IsNaN(Haversine(math.NaN(), 40.7, -74, 40.7)))
}

func BenchmarkHaversine(b *testing.B) {
	// run the Haversine function b.N times
	lonlats := []float64{23.730235, 37.967349, 23.730235, 37.967348}
	for n := 0; n < b.N; n++ {
		Haversine(lonlats[0], lonlats[1], lonlats[2], lonlats[3])
	}
}
