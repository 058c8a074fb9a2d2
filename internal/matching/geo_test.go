package matching

import (
	"testing"

	"github.com/sparkmatch/engine/internal/domain"
)

// kmToDegreesLat converts a north-south distance to degrees of latitude so
// tests can place profiles an exact great-circle distance apart.
const kmToDegreesLat = 180.0 / (3.14159265358979323846 * earthRadiusKm)

func profileAt(id string, lat, lon float64) domain.Profile {
	return domain.Profile{ID: id, Latitude: &lat, Longitude: &lon}
}

func TestBucketDistance_Boundaries(t *testing.T) {
	tests := []struct {
		km   float64
		want int
	}{
		{0, 100},
		{9.9, 100},
		{10.0, 80},
		{49.9, 80},
		{50.0, 60},
		{99.9, 60},
		{100.0, 40},
		{199.9, 40},
		{200.0, 20},
		{5000.0, 20},
	}

	for _, tt := range tests {
		if got := bucketDistance(tt.km); got != tt.want {
			t.Errorf("bucketDistance(%v) = %d, want %d", tt.km, got, tt.want)
		}
	}
}

func TestGeoScore_Symmetry(t *testing.T) {
	pairs := [][2]domain.Profile{
		{profileAt("a", 43.65, -79.38), profileAt("b", 45.42, -75.69)},   // Toronto/Ottawa
		{profileAt("a", 43.65, -79.38), profileAt("b", 43.70, -79.42)},   // same metro
		{profileAt("a", -33.87, 151.21), profileAt("b", 51.51, -0.13)},   // Sydney/London
		{profileAt("a", 0, 0), profileAt("b", 30*kmToDegreesLat, 0)},     // 30km apart
	}

	for _, pair := range pairs {
		ab := GeoScore(&pair[0], &pair[1])
		ba := GeoScore(&pair[1], &pair[0])
		if ab != ba {
			t.Errorf("GeoScore not symmetric: %d vs %d", ab, ba)
		}
	}
}

func TestGeoScore_Buckets(t *testing.T) {
	origin := profileAt("origin", 0, 0)

	tests := []struct {
		name string
		km   float64
		want int
	}{
		{"same city", 5, 100},
		{"nearby", 30, 80},
		{"regional", 75, 60},
		{"same state", 150, 40},
		{"far", 400, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := profileAt("candidate", tt.km*kmToDegreesLat, 0)
			if got := GeoScore(&origin, &candidate); got != tt.want {
				t.Errorf("GeoScore at %vkm = %d, want %d", tt.km, got, tt.want)
			}
		})
	}
}

func TestGeoScore_LocationFallback(t *testing.T) {
	tests := []struct {
		name string
		locA string
		locB string
		want int
	}{
		{"exact match", "Toronto, ON", "Toronto, ON", 100},
		{"exact match ignores case", "toronto, on", "Toronto, ON", 100},
		{"substring", "Toronto", "Toronto, ON", 70},
		{"substring reversed", "Toronto, ON", "Toronto", 70},
		{"no relation", "Toronto", "Vancouver", 30},
		{"one empty", "", "Toronto", 30},
		{"both empty", "", "", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := domain.Profile{ID: "a", Location: tt.locA}
			b := domain.Profile{ID: "b", Location: tt.locB}
			if got := GeoScore(&a, &b); got != tt.want {
				t.Errorf("GeoScore(%q, %q) = %d, want %d", tt.locA, tt.locB, got, tt.want)
			}
		})
	}
}

func TestGeoScore_FallbackWhenOneProfileLacksCoordinates(t *testing.T) {
	withCoords := profileAt("a", 43.65, -79.38)
	withCoords.Location = "Toronto"
	withoutCoords := domain.Profile{ID: "b", Location: "Toronto"}

	// Must use the string fallback, not treat missing coordinates as zero.
	if got := GeoScore(&withCoords, &withoutCoords); got != 100 {
		t.Errorf("GeoScore = %d, want 100 via location fallback", got)
	}
}
