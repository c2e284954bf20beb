// Package model defines the canonical relief-centre record shared across the pipeline.
package model

import (
	"strconv"
	"strings"
)

// DefaultDisasterTag is the fallback tag applied when a record lists no
// supported disasters.
const DefaultDisasterTag = "General"

// Record is a relief centre in canonical form. All fields are strings as
// ingested; Latitude and Longitude are guaranteed to parse as bounded floats
// once a record has passed normalization.
type Record struct {
	Name               string `json:"name" csv:"name"`
	Type               string `json:"type" csv:"type"`
	Latitude           string `json:"latitude" csv:"latitude"`
	Longitude          string `json:"longitude" csv:"longitude"`
	Inventory          string `json:"inventory" csv:"inventory"`
	LastUpdated        string `json:"last_updated" csv:"last_updated"`
	Contact            string `json:"contact" csv:"contact"`
	SupportedDisasters string `json:"supported_disasters" csv:"supported_disasters"`
}

// Header returns the fixed column order of the persisted dataset file.
func Header() []string {
	return []string{
		"name", "type", "latitude", "longitude",
		"inventory", "last_updated", "contact", "supported_disasters",
	}
}

// Fields returns the record values in Header order.
func (r Record) Fields() []string {
	return []string{
		r.Name, r.Type, r.Latitude, r.Longitude,
		r.Inventory, r.LastUpdated, r.Contact, r.SupportedDisasters,
	}
}

// Coordinates parses the latitude/longitude pair. ok is false when either
// value fails to parse.
func (r Record) Coordinates() (lat, lon float64, ok bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(r.Latitude), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(r.Longitude), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// DisasterTags splits the supported_disasters cell on "," or "|", stripping
// embedded whitespace and lowercasing. Empty segments are dropped.
func (r Record) DisasterTags() []string {
	cell := strings.Map(func(c rune) rune {
		if c == ' ' || c == '\t' {
			return -1
		}
		return c
	}, r.SupportedDisasters)

	var tags []string
	for _, tag := range strings.FieldsFunc(cell, func(c rune) bool {
		return c == ',' || c == '|'
	}) {
		if tag != "" {
			tags = append(tags, strings.ToLower(tag))
		}
	}
	return tags
}

// SupportsDisaster reports whether the record lists the given disaster type,
// case-insensitively.
func (r Record) SupportsDisaster(disaster string) bool {
	disaster = strings.ToLower(strings.TrimSpace(disaster))
	for _, tag := range r.DisasterTags() {
		if tag == disaster {
			return true
		}
	}
	return false
}

// HasInventory reports whether the inventory cell is non-blank.
func (r Record) HasInventory() bool {
	return strings.TrimSpace(r.Inventory) != ""
}
