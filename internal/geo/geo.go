// ABOUTME: Great-circle distance helpers shared by every retrieval tier
// ABOUTME: Haversine formula on a spherical Earth, inputs in degrees
package geo

import "math"

// EarthRadiusMeters is the spherical Earth radius used for all distances
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinates given in degrees.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}
