package haversine

import "math"

// EarthRadius is the mean radius of the earth in kilometers
const EarthRadius = float64(6371)

// Haversine calculates the great-circle distance in kilometers between two points
// given in degrees. Coordinates are not range checked, NaN inputs yield NaN.
func Haversine(lonFrom float64, latFrom float64, lonTo float64, latTo float64) float64 {
	lonFrom, latFrom = radians(lonFrom), radians(latFrom)
	lonTo, latTo = radians(lonTo), radians(latTo)

	var deltaLat = latTo - latFrom
	var deltaLon = lonTo - lonFrom

	var a = math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(latFrom)*math.Cos(latTo)*math.Pow(math.Sin(deltaLon/2), 2)
	// rounding can push a slightly above 1 for antipodal points
	var c = 2 * math.Asin(math.Sqrt(math.Min(a, 1)))

	return EarthRadius * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
