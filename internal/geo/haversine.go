// Package geo provides great-circle distance calculations for GPS
// coordinates.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for the spherical model.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance in kilometres between two
// points given in decimal degrees. Coordinates are not range-checked;
// out-of-range values produce mathematically defined but physically
// meaningless results.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
