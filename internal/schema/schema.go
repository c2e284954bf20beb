// Package schema maps arbitrary spreadsheet columns onto the canonical
// 8-field relief-centre record, validates coordinates, and filters rows that
// cannot be made canonical. Normalization never fails; rejected rows are
// silently dropped.
package schema

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sahara-sahaya/relief-cli/internal/model"
	"github.com/sahara-sahaya/relief-cli/internal/reader"
)

// combinedCoordColumn holds "lat,lon" pairs in some upstream exports.
const combinedCoordColumn = "location_coordinates"

// essential fields disqualify a row when empty.
var essentialFields = []string{"name", "type", "latitude", "longitude", "contact"}

// aliasTable maps each canonical field to its accepted header names, in
// priority order. The first candidate present in the input header wins, so
// the order must not be reshuffled. The three optional fields resolve only by
// their canonical names, which keeps normalization idempotent on its own
// output.
var aliasTable = []struct {
	target     string
	candidates []string
}{
	{"name", []string{"hospital_name", "facility name", "station name", "centre name", "center name", "name"}},
	{"type", []string{"hospital_category", "category", "hospital_type", "centre type", "type"}},
	{"latitude", []string{"lat", "latitude", "latitude(dd)", "lat_dd"}},
	{"longitude", []string{"lon", "long", "longitude", "longitude(dd)", "lng", "lng_dd"}},
	{"contact", []string{"mobile_number", "mobile", "telephone", "phone", "contact", "phone_no", "phone number"}},
	{"inventory", []string{"inventory"}},
	{"last_updated", []string{"last_updated"}},
	{"supported_disasters", []string{"supported_disasters"}},
}

// Normalize maps a raw table onto canonical records using the built-in alias
// table. Surviving rows keep their input order.
func Normalize(t *reader.Table) []model.Record {
	return NormalizeWith(t, nil)
}

// NormalizeWith is Normalize with extra per-field alias candidates appended
// after the built-ins (see LoadAliases).
func NormalizeWith(t *reader.Table, extra map[string][]string) []model.Record {
	if t == nil {
		return nil
	}

	// 1. Header normalization: trim and lowercase; first occurrence of a
	// duplicate column name wins.
	index := make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		name := strings.ToLower(strings.TrimSpace(col))
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}

	// 2. Alias resolution, first matching candidate wins.
	resolved := make(map[string]int, len(aliasTable))
	for _, a := range aliasTable {
		candidates := a.candidates
		if more := extra[a.target]; len(more) > 0 {
			candidates = append(append([]string{}, candidates...), more...)
		}
		for _, cand := range candidates {
			if i, ok := index[cand]; ok {
				resolved[a.target] = i
				break
			}
		}
	}

	// 3. Combined "lat,lon" column fills whichever side is still unset.
	coordIdx, hasCoordCol := index[combinedCoordColumn]
	_, hasLat := resolved["latitude"]
	_, hasLon := resolved["longitude"]
	splitLat := hasCoordCol && !hasLat
	splitLon := hasCoordCol && !hasLon

	// 5. Contact fallback: a dedicated mobile column stands in when contact
	// resolved to nothing but blanks.
	if mobileIdx, ok := index["mobile_number"]; ok {
		if contactEmpty(t, resolved) {
			resolved["contact"] = mobileIdx
		}
	}

	cellFor := func(row []string, target string) string {
		if i, ok := resolved[target]; ok {
			return row[i]
		}
		if (target == "latitude" && splitLat) || (target == "longitude" && splitLon) {
			lat, lon := splitCoordinates(row[coordIdx])
			if target == "latitude" {
				return lat
			}
			return lon
		}
		return "" // 4. unresolved columns read as empty
	}

	var out []model.Record
	rejected := 0
	for _, row := range t.Rows {
		rec := model.Record{
			Name:               cellFor(row, "name"),
			Type:               cellFor(row, "type"),
			Latitude:           cellFor(row, "latitude"),
			Longitude:          cellFor(row, "longitude"),
			Inventory:          cellFor(row, "inventory"),
			LastUpdated:        cellFor(row, "last_updated"),
			Contact:            cellFor(row, "contact"),
			SupportedDisasters: cellFor(row, "supported_disasters"),
		}

		// 6. Geospatial validation.
		lat, ok := TryParseCoordinate(rec.Latitude)
		if !ok || !validLatitude(lat) {
			rejected++
			continue
		}
		lon, ok := TryParseCoordinate(rec.Longitude)
		if !ok || !validLongitude(lon) {
			rejected++
			continue
		}

		// 7. Essential-field filter.
		if strings.TrimSpace(rec.Name) == "" ||
			strings.TrimSpace(rec.Type) == "" ||
			strings.TrimSpace(rec.Contact) == "" {
			rejected++
			continue
		}

		// 8. Defaults for optional fields.
		if strings.TrimSpace(rec.SupportedDisasters) == "" {
			rec.SupportedDisasters = model.DefaultDisasterTag
		}

		out = append(out, rec)
	}

	if rejected > 0 {
		zap.L().Debug("rejected rows during normalization",
			zap.Int("rejected", rejected),
			zap.Int("kept", len(out)),
		)
	}
	return out
}

// contactEmpty reports whether the resolved contact column is blank on every
// row (or was never resolved).
func contactEmpty(t *reader.Table, resolved map[string]int) bool {
	i, ok := resolved["contact"]
	if !ok {
		return true
	}
	for _, row := range t.Rows {
		if strings.TrimSpace(row[i]) != "" {
			return false
		}
	}
	return true
}

// splitCoordinates splits a "lat,lon" cell on the first comma.
func splitCoordinates(cell string) (lat, lon string) {
	lat, lon, found := strings.Cut(cell, ",")
	if !found {
		return cell, ""
	}
	return lat, lon
}
