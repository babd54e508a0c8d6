// Package geo holds the small amount of geodesic math discovery needs.
package geo

import (
	"fmt"
	"math"

	"nightspot/internal/domain"
)

const earthRadiusMeters = 6371000

// Distance returns the great-circle distance between a and b in meters
// (haversine). Symmetric; zero for identical points.
func Distance(a, b domain.Coordinate) float64 {
	la1 := a.Lat * math.Pi / 180
	la2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// FormatDistance renders meters for display: whole meters below 1 km,
// kilometers to one decimal at or above.
func FormatDistance(m float64) string {
	if m < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(m)))
	}
	return fmt.Sprintf("%.1f km", m/1000)
}
