package moderation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sparkmatch/engine/internal/domain"
)

// ErrEscalationIncomplete indicates that one or more escalation writes failed
// after a message was blocked. The block decision stands; the caller should
// retry the remaining effects via Escalation.Run.
var ErrEscalationIncomplete = errors.New("escalation incomplete")

// FlagStore increments a user's violation counter and marks them under
// review. Implementations must use an atomic field increment, not
// read-modify-write.
type FlagStore interface {
	IncrementFlag(ctx context.Context, userID string) error
}

// AlertStore persists moderation alerts. CreateAlert must be idempotent on
// the alert ID so a retried escalation never duplicates the record.
type AlertStore interface {
	CreateAlert(ctx context.Context, alert *domain.ModerationAlert) error
}

// StatsStore increments the aggregate threat counter. The increment must be
// merge-style: it may not touch unrelated stat fields.
type StatsStore interface {
	IncrementThreatsBlocked(ctx context.Context) error
}

// effect is one escalation side effect. Completed effects are skipped on
// retry so a partial failure never double-applies the others.
type effect struct {
	name string
	run  func(ctx context.Context) error
	done bool
}

// Escalation is the ordered bundle of side effects owed for one blocked
// message: flag the sender, record the alert, bump the aggregate counter.
// All three must eventually occur; Run can be called again until they have.
type Escalation struct {
	effects []*effect
}

func newEscalation(flags FlagStore, alerts AlertStore, stats StatsStore, alert *domain.ModerationAlert) *Escalation {
	return &Escalation{
		effects: []*effect{
			{
				name: "increment_user_flag",
				run: func(ctx context.Context) error {
					return flags.IncrementFlag(ctx, alert.UserID)
				},
			},
			{
				name: "create_alert",
				run: func(ctx context.Context) error {
					return alerts.CreateAlert(ctx, alert)
				},
			},
			{
				name: "increment_threat_counter",
				run: func(ctx context.Context) error {
					return stats.IncrementThreatsBlocked(ctx)
				},
			},
		},
	}
}

// Run executes every effect that has not yet succeeded. On failure it returns
// ErrEscalationIncomplete wrapped with the underlying errors; already
// completed effects are not re-run on subsequent calls.
func (e *Escalation) Run(ctx context.Context) error {
	var failures []error
	for _, eff := range e.effects {
		if eff.done {
			continue
		}
		if err := eff.run(ctx); err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", eff.name, err))
			continue
		}
		eff.done = true
	}

	if len(failures) > 0 {
		return fmt.Errorf("%w: %w", ErrEscalationIncomplete, errors.Join(failures...))
	}
	return nil
}

// Pending returns the names of effects that have not succeeded yet.
func (e *Escalation) Pending() []string {
	var pending []string
	for _, eff := range e.effects {
		if !eff.done {
			pending = append(pending, eff.name)
		}
	}
	return pending
}
