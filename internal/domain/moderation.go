package domain

import "time"

// Alert severity and status values.
const (
	SeverityHigh = "high"

	AlertStatusNew      = "new"
	AlertStatusResolved = "resolved"
)

// ModerationDecision is the outcome of evaluating one outbound message.
// Ephemeral: produced per evaluation.
type ModerationDecision struct {
	Flagged    bool     `json:"flagged"`
	Reason     string   `json:"reason,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// ModerationAlert is an immutable record created each time a message is
// blocked. The offending text is kept verbatim for evidentiary review.
// Resolution only flips Status; the underlying block is never undone.
type ModerationAlert struct {
	ID            string     `db:"id"             json:"id"`
	UserID        string     `db:"user_id"        json:"user_id"`
	OffendingText string     `db:"offending_text" json:"offending_text"`
	Reason        string     `db:"reason"         json:"reason"`
	Categories    []string   `json:"categories,omitempty"`
	Severity      string     `db:"severity"       json:"severity"`
	Status        string     `db:"status"         json:"status"`
	CreatedAt     time.Time  `db:"created_at"     json:"created_at"`
	ResolvedAt    *time.Time `db:"resolved_at"    json:"resolved_at,omitempty"`
}

// UserFlag is the per-user violation counter. FlagCount only ever grows;
// nothing in the engine decrements it or clears UnderReview.
type UserFlag struct {
	UserID      string    `db:"user_id"      json:"user_id"`
	FlagCount   int       `db:"flag_count"   json:"flag_count"`
	UnderReview bool      `db:"under_review" json:"under_review"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// ModerationStats is the platform-wide aggregate read by admin tooling.
type ModerationStats struct {
	ThreatsBlocked int64     `db:"threats_blocked" json:"threats_blocked"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}
