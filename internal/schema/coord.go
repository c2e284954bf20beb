package schema

import (
	"strconv"
	"strings"
)

// TryParseCoordinate parses a coordinate cell. Invalid input is an expected
// condition during normalization, so it is reported through ok rather than an
// error.
func TryParseCoordinate(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func validLatitude(lat float64) bool { return lat >= -90 && lat <= 90 }

func validLongitude(lon float64) bool { return lon >= -180 && lon <= 180 }
