package geo

import (
	"math"

	"github.com/nazeru/carrier-marketplace-go/internal/carrier/domain"
)

// MockCurrent is the fixed "you are here" location near SoMa, SF.
// There is no real geolocation; every distance is measured from this point.
var MockCurrent = domain.Coordinate{Lat: 37.776, Lng: -122.418}

const (
	earthRadiusKm = 6371
	milesPerKm    = 0.621371
)

// DistanceKm returns the great-circle distance between two coordinates.
func DistanceKm(a, b domain.Coordinate) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	x := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(x))
}

// DistanceMiles returns the drop-off distance in miles from the mock
// current location, as shown on order cards.
func DistanceMiles(dropoff domain.Coordinate) float64 {
	return DistanceKm(MockCurrent, dropoff) * milesPerKm
}
