package domain

// Weight bounds. Weights outside [0,100] are clamped, never rejected.
const (
	MinWeight = 0
	MaxWeight = 100
)

// RankingWeights holds the relative importance of geographic proximity vs.
// interest overlap when composing a candidate score. Owned by platform
// configuration; read at scoring time.
type RankingWeights struct {
	Geo      int `json:"geo"      yaml:"geo"`
	Interest int `json:"interest" yaml:"interest"`
}

// Clamped returns a copy with both weights forced into [MinWeight, MaxWeight].
func (w RankingWeights) Clamped() RankingWeights {
	return RankingWeights{
		Geo:      clampWeight(w.Geo),
		Interest: clampWeight(w.Interest),
	}
}

func clampWeight(v int) int {
	if v < MinWeight {
		return MinWeight
	}
	if v > MaxWeight {
		return MaxWeight
	}
	return v
}

// ScoredCandidate is a profile plus its derived ranking scores, all 0-100.
// Computed per request, never persisted.
type ScoredCandidate struct {
	Profile        Profile `json:"profile"`
	GeoScore       int     `json:"geo_score"`
	InterestScore  int     `json:"interest_score"`
	CompositeScore int     `json:"composite_score"`
}
