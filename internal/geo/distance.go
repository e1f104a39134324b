// Package geo provides great-circle distance math and district boundary
// lookups for candidate locations.
package geo

import "math"

const earthRadiusKM = 6371.0

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// DistanceKM returns the haversine great-circle distance between two
// coordinates in kilometers.
func DistanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// Distance returns the haversine distance between two points in kilometers.
func (p Point) Distance(q Point) float64 {
	return DistanceKM(p.Lat, p.Lng, q.Lat, q.Lng)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
