// Package geo computes great-circle distance and walking time between
// coordinate pairs.
package geo

import "math"

const earthRadiusKm = 6371.0

// walkKmPerMinute approximates 5 km/h on foot.
const walkKmPerMinute = 0.083

// DistanceKm returns the haversine distance in kilometers between two
// (lat, lon) pairs given in decimal degrees.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// WalkMinutes estimates the time to cover km on foot, rounded to whole
// minutes.
func WalkMinutes(km float64) int {
	return int(math.Round(km / walkKmPerMinute))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
