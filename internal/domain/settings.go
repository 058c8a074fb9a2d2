package domain

import "time"

// Default platform settings, applied when the settings store is unavailable.
// Moderation stays enabled and the dynamic keyword list stays empty (the
// built-in baseline list still applies); ranking falls back to the stock
// geo-heavy weighting.
const (
	DefaultGeoWeight      = 80
	DefaultInterestWeight = 50
)

// PlatformSettings are the administrator-tunable knobs the engine reads at
// evaluation time: ranking weights, the moderation toggle, and the dynamic
// banned-keyword list.
type PlatformSettings struct {
	Weights           RankingWeights `json:"weights"`
	ModerationEnabled bool           `json:"moderation_enabled"`
	BannedKeywords    []string       `json:"banned_keywords"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// DefaultPlatformSettings returns the fallback settings used when the
// provider cannot reach its store.
func DefaultPlatformSettings() PlatformSettings {
	return PlatformSettings{
		Weights: RankingWeights{
			Geo:      DefaultGeoWeight,
			Interest: DefaultInterestWeight,
		},
		ModerationEnabled: true,
		BannedKeywords:    nil,
	}
}
