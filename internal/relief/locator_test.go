package relief

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahara-sahaya/relief-cli/internal/model"
)

var testRecords = []model.Record{
	{
		Name: "Far Hospital", Type: "Hospital",
		Latitude: "13.5", Longitude: "78.0",
		Inventory: "beds", Contact: "111",
		SupportedDisasters: "Flood|Fire",
	},
	{
		Name: "Near Camp", Type: "Camp",
		Latitude: "12.91", Longitude: "77.61",
		Contact: "222", SupportedDisasters: "Flood",
	},
	{
		Name: "Quake Shelter", Type: "Shelter",
		Latitude: "12.95", Longitude: "77.65",
		Contact: "333", SupportedDisasters: "Earthquake",
	},
}

func TestNearby_FiltersByDisaster(t *testing.T) {
	centres := Nearby(testRecords, 12.9, 77.6, "flood", SortNearest)
	require.Len(t, centres, 2)
	assert.Equal(t, "Near Camp", centres[0].Name)
	assert.Equal(t, "Far Hospital", centres[1].Name)

	centres = Nearby(testRecords, 12.9, 77.6, "Earthquake", SortNearest)
	require.Len(t, centres, 1)
	assert.Equal(t, "Quake Shelter", centres[0].Name)

	assert.Empty(t, Nearby(testRecords, 12.9, 77.6, "cyclone", SortNearest))
}

func TestNearby_EmptyDisasterMatchesAll(t *testing.T) {
	centres := Nearby(testRecords, 12.9, 77.6, "", SortNearest)
	assert.Len(t, centres, 3)
}

func TestNearby_SortNearest(t *testing.T) {
	centres := Nearby(testRecords, 12.9, 77.6, "", SortNearest)
	require.Len(t, centres, 3)
	for i := 1; i < len(centres); i++ {
		assert.LessOrEqual(t, centres[i-1].DistanceKm, centres[i].DistanceKm)
	}
}

func TestNearby_SortInventoryFirst(t *testing.T) {
	centres := Nearby(testRecords, 12.9, 77.6, "flood", SortInventory)
	require.Len(t, centres, 2)
	// Far Hospital has inventory, so it outranks the nearer camp.
	assert.Equal(t, "Far Hospital", centres[0].Name)
	assert.True(t, centres[0].HasStock)
	assert.Equal(t, "Near Camp", centres[1].Name)
}

func TestNearby_EnrichesDistanceAndTime(t *testing.T) {
	centres := Nearby(testRecords, 12.9, 77.6, "", SortNearest)
	require.NotEmpty(t, centres)
	nearest := centres[0]
	assert.Greater(t, nearest.DistanceKm, 0.0)
	assert.Greater(t, nearest.WalkMinutes, 0)
}

func TestNearby_SkipsUnparseableCoordinates(t *testing.T) {
	records := append([]model.Record{}, testRecords...)
	records = append(records, model.Record{
		Name: "Broken", Type: "Camp",
		Latitude: "north", Longitude: "77.6",
		Contact: "444", SupportedDisasters: "Flood",
	})

	centres := Nearby(records, 12.9, 77.6, "flood", SortNearest)
	for _, c := range centres {
		assert.NotEqual(t, "Broken", c.Name)
	}
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortNearest, ParseSort(""))
	assert.Equal(t, SortNearest, ParseSort("nearest"))
	assert.Equal(t, SortInventory, ParseSort("inventory"))
	assert.Equal(t, SortInventory, ParseSort(" INVENTORY "))
	assert.Equal(t, SortNearest, ParseSort("bogus"))
}
