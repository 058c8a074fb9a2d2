// Package domain holds the core data contracts shared across the engine.
package domain

// Profile represents a user profile as the engine sees it: read-only display
// attributes plus the optional signals the scorers consume. Profiles are
// owned and mutated elsewhere; the engine never writes them.
type Profile struct {
	ID       string `db:"id"       json:"id"`
	Name     string `db:"name"     json:"name"`
	Age      int    `db:"age"      json:"age"`
	Gender   string `db:"gender"   json:"gender"`
	Bio      string `db:"bio"      json:"bio"`
	Location string `db:"location" json:"location"`

	// Coordinates are optional; profiles without them fall back to the
	// free-text Location field for proximity scoring.
	Latitude  *float64 `db:"latitude"  json:"latitude,omitempty"`
	Longitude *float64 `db:"longitude" json:"longitude,omitempty"`

	Interests []string `json:"interests,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (p *Profile) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
