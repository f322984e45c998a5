package geo

import (
	"math"
)

// Distance calculates the approximate planar distance between two points
// in statute miles. 69.1 is the length of one degree of latitude in miles;
// the longitude degree is scaled by the cosine of the first latitude, with
// 57.3 as the degrees-to-radians divisor. The constants match the SQL
// expression used by the Postgres repository, so both paths produce the
// same numbers. Callers pass the provider's coordinates first and the
// query point second.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := 69.1 * (lat1 - lat2)
	dLon := 69.1 * (lon2 - lon1) * math.Cos(lat1/57.3)
	return math.Sqrt(dLat*dLat + dLon*dLon)
}

// RoundDistance rounds a distance to two decimal places, half away from zero.
func RoundDistance(d float64) float64 {
	return math.Round(d*100) / 100
}
