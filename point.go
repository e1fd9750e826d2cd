package fare

import (
	"math"

	"github.com/cubny/taxifare/internal/haversine"
)

// Point holds the geo coordinates of a pickup or dropoff in degrees
type Point struct {
	Lat, Lon float64
}

// Distance returns the haversine distance in kilometers between from and p
func (p Point) Distance(from Point) float64 {
	return haversine.Haversine(from.Lon, from.Lat, p.Lon, p.Lat)
}

// finite reports whether both coordinates are numbers. Out of range values are allowed.
func (p Point) finite() bool {
	for _, v := range []float64{p.Lat, p.Lon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
