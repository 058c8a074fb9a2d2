package api

import (
	"time"

	"github.com/sparkmatch/engine/internal/domain"
)

// RankRequest represents a candidate ranking request. Weights is optional;
// when omitted the platform settings weights apply. The fields inside are
// deliberately loose so a malformed payload reaches weight validation instead
// of failing JSON binding.
type RankRequest struct {
	Requester  *domain.Profile  `json:"requester" binding:"required"`
	Candidates []domain.Profile `json:"candidates" binding:"required"`
	Weights    *RawWeights      `json:"weights"`
}

// RawWeights carries weight values before validation.
type RawWeights struct {
	Geo      any `json:"geo"`
	Interest any `json:"interest"`
}

// RankedCandidate is one scored entry in a ranking response.
type RankedCandidate struct {
	Profile        domain.Profile `json:"profile"`
	GeoScore       int            `json:"geo_score"`
	InterestScore  int            `json:"interest_score"`
	CompositeScore int            `json:"composite_score"`
}

// RankResponse represents a ranking response. Ranked is false when the
// supplied weights were invalid and the candidates are returned in request
// order instead.
type RankResponse struct {
	Candidates []RankedCandidate     `json:"candidates"`
	Ranked     bool                  `json:"ranked"`
	Weights    domain.RankingWeights `json:"weights"`
	Error      string                `json:"error,omitempty"`
}

// EvaluateRequest represents a message moderation request.
type EvaluateRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// EvaluateResponse represents a moderation decision.
type EvaluateResponse struct {
	Blocked bool `json:"blocked"`
	// Message is the user-facing notice when blocked.
	Message    string   `json:"message,omitempty"`
	Categories []string `json:"categories,omitempty"`
	AlertID    string   `json:"alert_id,omitempty"`
	// EscalationPending is true when the block stands but one or more
	// administrative writes still need a retry.
	EscalationPending bool `json:"escalation_pending,omitempty"`
}

// AlertResponse represents a moderation alert for the dashboard.
type AlertResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	OffendingText string     `json:"offending_text"`
	Reason        string     `json:"reason"`
	Categories    []string   `json:"categories"`
	Severity      string     `json:"severity"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// AlertsListResponse represents a list of alerts with metadata.
type AlertsListResponse struct {
	Alerts []AlertResponse `json:"alerts"`
	Total  int             `json:"total"`
}

// UserFlagResponse represents a user's violation standing.
type UserFlagResponse struct {
	UserID      string    `json:"user_id"`
	FlagCount   int       `json:"flag_count"`
	UnderReview bool      `json:"under_review"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatsResponse represents aggregate moderation statistics.
type StatsResponse struct {
	ThreatsBlocked int64     `json:"threats_blocked"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SettingsResponse represents the platform settings.
type SettingsResponse struct {
	GeoWeight         int       `json:"geo_weight"`
	InterestWeight    int       `json:"interest_weight"`
	ModerationEnabled bool      `json:"moderation_enabled"`
	BannedKeywords    []string  `json:"banned_keywords"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UpdateSettingsRequest represents a settings update. Pointer fields are
// optional; omitted fields keep their current value.
type UpdateSettingsRequest struct {
	GeoWeight         *int      `json:"geo_weight"`
	InterestWeight    *int      `json:"interest_weight"`
	ModerationEnabled *bool     `json:"moderation_enabled"`
	BannedKeywords    *[]string `json:"banned_keywords"`
}

func alertResponse(alert *domain.ModerationAlert) AlertResponse {
	return AlertResponse{
		ID:            alert.ID,
		UserID:        alert.UserID,
		OffendingText: alert.OffendingText,
		Reason:        alert.Reason,
		Categories:    alert.Categories,
		Severity:      alert.Severity,
		Status:        alert.Status,
		CreatedAt:     alert.CreatedAt,
		ResolvedAt:    alert.ResolvedAt,
	}
}

func settingsResponse(s domain.PlatformSettings) SettingsResponse {
	keywords := s.BannedKeywords
	if keywords == nil {
		keywords = []string{}
	}
	return SettingsResponse{
		GeoWeight:         s.Weights.Geo,
		InterestWeight:    s.Weights.Interest,
		ModerationEnabled: s.ModerationEnabled,
		BannedKeywords:    keywords,
		UpdatedAt:         s.UpdatedAt,
	}
}
