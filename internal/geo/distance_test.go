package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	// One degree of longitude at the equator is about 111.2 km.
	assert.InDelta(t, 111.2, DistanceKm(0, 0, 0, 1), 0.5)

	// Bengaluru to Chennai is roughly 290 km great-circle.
	assert.InDelta(t, 290, DistanceKm(12.9716, 77.5946, 13.0827, 80.2707), 10)

	assert.Zero(t, DistanceKm(12.9, 77.6, 12.9, 77.6))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := DistanceKm(12.9, 77.6, 13.1, 80.3)
	b := DistanceKm(13.1, 80.3, 12.9, 77.6)
	assert.InDelta(t, a, b, 1e-9)
}

func TestWalkMinutes(t *testing.T) {
	assert.Equal(t, 0, WalkMinutes(0))
	assert.Equal(t, 10, WalkMinutes(0.83))
	assert.Equal(t, 12, WalkMinutes(1.0))
}
