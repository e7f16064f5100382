package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nazeru/carrier-marketplace-go/internal/carrier/domain"
)

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	p := domain.Coordinate{Lat: 37.776, Lng: -122.418}
	assert.InDelta(t, 0, DistanceKm(p, p), 1e-9)
}

func TestDistanceKmIsSymmetric(t *testing.T) {
	a := domain.Coordinate{Lat: 37.776, Lng: -122.418}
	b := domain.Coordinate{Lat: 37.789, Lng: -122.42}
	assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9)
}

func TestDistanceMilesForSeedDropoffs(t *testing.T) {
	// All seed drop-offs are within a few miles of the mock location.
	for _, order := range domain.SeedOrders() {
		miles := DistanceMiles(order.RecipientLocation)
		assert.Greater(t, miles, 0.0, "order %s", order.ID)
		assert.Less(t, miles, 5.0, "order %s", order.ID)
	}
}

func TestDistanceKmKnownPair(t *testing.T) {
	// Mock location to the ORD-1001 drop-off is roughly a mile and a half.
	got := DistanceKm(MockCurrent, domain.Coordinate{Lat: 37.789, Lng: -122.42})
	assert.InDelta(t, 1.46, got, 0.1)
}
