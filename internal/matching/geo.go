// Package matching implements candidate scoring and ranking for the
// sparkmatch discovery feed.
package matching

import (
	"math"
	"strings"

	"github.com/sparkmatch/engine/internal/domain"
)

const earthRadiusKm = 6371.0

// Distance buckets, in kilometers. Bucketed on purpose: the product rewards
// "same metro area" granularity, not precise distance. Adjust edges here, do
// not replace with a continuous curve.
const (
	geoBucketSameCity  = 10.0
	geoBucketNearby    = 50.0
	geoBucketRegional  = 100.0
	geoBucketSameState = 200.0

	geoScoreSameCity  = 100
	geoScoreNearby    = 80
	geoScoreRegional  = 60
	geoScoreSameState = 40
	geoScoreFar       = 20
)

// Location-string fallback scores for profiles without coordinates.
const (
	geoScoreLocationExact    = 100
	geoScoreLocationContains = 70
	geoScoreLocationUnknown  = 30
)

// GeoScore computes a 0-100 proximity score between two profiles, higher
// meaning closer. It always returns a value: profiles without coordinates are
// scored from their free-text location fields, and entirely unknown locations
// get a constant penalty rather than zero so incomplete profiles are not
// excluded outright.
func GeoScore(a, b *domain.Profile) int {
	if a.HasCoordinates() && b.HasCoordinates() {
		km := haversineKm(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
		return bucketDistance(km)
	}
	return locationStringScore(a.Location, b.Location)
}

func bucketDistance(km float64) int {
	switch {
	case km < geoBucketSameCity:
		return geoScoreSameCity
	case km < geoBucketNearby:
		return geoScoreNearby
	case km < geoBucketRegional:
		return geoScoreRegional
	case km < geoBucketSameState:
		return geoScoreSameState
	default:
		return geoScoreFar
	}
}

func locationStringScore(a, b string) int {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))

	// An empty location is unknown, not a match for everything.
	if la == "" || lb == "" {
		return geoScoreLocationUnknown
	}
	if la == lb {
		return geoScoreLocationExact
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return geoScoreLocationContains
	}
	return geoScoreLocationUnknown
}

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
