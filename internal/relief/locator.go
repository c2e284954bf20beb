// Package relief filters and ranks relief centres around a user coordinate.
package relief

import (
	"sort"
	"strings"

	"github.com/sahara-sahaya/relief-cli/internal/geo"
	"github.com/sahara-sahaya/relief-cli/internal/model"
)

// Sort selects the ordering of search results.
type Sort string

const (
	// SortNearest orders by distance ascending.
	SortNearest Sort = "nearest"
	// SortInventory orders centres with inventory first, then by distance.
	SortInventory Sort = "inventory"
)

// ParseSort maps a user-supplied sort name onto a Sort, defaulting to
// SortNearest.
func ParseSort(s string) Sort {
	if strings.EqualFold(strings.TrimSpace(s), string(SortInventory)) {
		return SortInventory
	}
	return SortNearest
}

// Centre is a relief centre enriched with distance and travel time relative
// to the user's position.
type Centre struct {
	model.Record
	DistanceKm  float64 `json:"distance_km"`
	WalkMinutes int     `json:"time_min"`
	HasStock    bool    `json:"has_inventory"`
}

// Nearby returns the centres supporting the given disaster type, enriched
// with distance and walking time from (lat, lon) and sorted per sortBy. An
// empty disaster matches every centre. Records whose coordinates fail to
// parse are skipped.
func Nearby(records []model.Record, lat, lon float64, disaster string, sortBy Sort) []Centre {
	var centres []Centre
	for _, rec := range records {
		if disaster != "" && !rec.SupportsDisaster(disaster) {
			continue
		}
		rLat, rLon, ok := rec.Coordinates()
		if !ok {
			continue
		}
		km := geo.DistanceKm(lat, lon, rLat, rLon)
		centres = append(centres, Centre{
			Record:      rec,
			DistanceKm:  km,
			WalkMinutes: geo.WalkMinutes(km),
			HasStock:    rec.HasInventory(),
		})
	}

	switch sortBy {
	case SortInventory:
		sort.SliceStable(centres, func(i, j int) bool {
			if centres[i].HasStock != centres[j].HasStock {
				return centres[i].HasStock
			}
			return centres[i].DistanceKm < centres[j].DistanceKm
		})
	default:
		sort.SliceStable(centres, func(i, j int) bool {
			return centres[i].DistanceKm < centres[j].DistanceKm
		})
	}
	return centres
}
