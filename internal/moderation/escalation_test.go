package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sparkmatch/engine/internal/domain"
)

type fakeFlagStore struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func newFakeFlagStore() *fakeFlagStore {
	return &fakeFlagStore{counts: make(map[string]int)}
}

func (s *fakeFlagStore) IncrementFlag(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.counts[userID]++
	return nil
}

func (s *fakeFlagStore) count(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[userID]
}

type fakeAlertStore struct {
	mu     sync.Mutex
	alerts map[string]*domain.ModerationAlert
	err    error
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{alerts: make(map[string]*domain.ModerationAlert)}
}

func (s *fakeAlertStore) CreateAlert(_ context.Context, alert *domain.ModerationAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	// Idempotent on ID, like the ON CONFLICT DO NOTHING insert.
	if _, exists := s.alerts[alert.ID]; !exists {
		s.alerts[alert.ID] = alert
	}
	return nil
}

func (s *fakeAlertStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

type fakeStatsStore struct {
	mu      sync.Mutex
	blocked int64
	err     error
}

func (s *fakeStatsStore) IncrementThreatsBlocked(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.blocked++
	return nil
}

func (s *fakeStatsStore) total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked
}

func testAlert(userID string) *domain.ModerationAlert {
	return &domain.ModerationAlert{
		ID:            "alert-" + userID,
		UserID:        userID,
		OffendingText: "bad message",
		Reason:        "Keyword Violation: nudes",
		Categories:    []string{"keyword"},
		Severity:      domain.SeverityHigh,
		Status:        domain.AlertStatusNew,
		CreatedAt:     time.Now().UTC(),
	}
}

func TestEscalation_Run_AllEffects(t *testing.T) {
	flags := newFakeFlagStore()
	alerts := newFakeAlertStore()
	stats := &fakeStatsStore{}

	esc := newEscalation(flags, alerts, stats, testAlert("u1"))
	if err := esc.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := flags.count("u1"); got != 1 {
		t.Errorf("flag count: got %d, want 1", got)
	}
	if got := alerts.len(); got != 1 {
		t.Errorf("alerts: got %d, want 1", got)
	}
	if got := stats.total(); got != 1 {
		t.Errorf("threats blocked: got %d, want 1", got)
	}
	if pending := esc.Pending(); len(pending) != 0 {
		t.Errorf("pending after success: %v", pending)
	}
}

func TestEscalation_Run_PartialFailureRetry(t *testing.T) {
	flags := newFakeFlagStore()
	alerts := newFakeAlertStore()
	alerts.err = errors.New("connection refused")
	stats := &fakeStatsStore{}

	esc := newEscalation(flags, alerts, stats, testAlert("u2"))

	err := esc.Run(context.Background())
	if !errors.Is(err, ErrEscalationIncomplete) {
		t.Fatalf("expected ErrEscalationIncomplete, got %v", err)
	}

	// The failing effect must not keep the later one from running.
	if got := flags.count("u2"); got != 1 {
		t.Errorf("flag count after failure: got %d, want 1", got)
	}
	if got := stats.total(); got != 1 {
		t.Errorf("threats blocked after failure: got %d, want 1", got)
	}
	pending := esc.Pending()
	if len(pending) != 1 || pending[0] != "create_alert" {
		t.Fatalf("pending: got %v, want [create_alert]", pending)
	}

	// Retry after the store recovers: only the failed effect runs again.
	alerts.err = nil
	if err := esc.Run(context.Background()); err != nil {
		t.Fatalf("retry Run: %v", err)
	}
	if got := flags.count("u2"); got != 1 {
		t.Errorf("flag count double-applied on retry: got %d, want 1", got)
	}
	if got := stats.total(); got != 1 {
		t.Errorf("threat counter double-applied on retry: got %d, want 1", got)
	}
	if got := alerts.len(); got != 1 {
		t.Errorf("alerts after retry: got %d, want 1", got)
	}
	if pending := esc.Pending(); len(pending) != 0 {
		t.Errorf("pending after retry: %v", pending)
	}
}

func TestEscalation_Run_AllFailuresReported(t *testing.T) {
	flags := newFakeFlagStore()
	flags.err = errors.New("flags down")
	alerts := newFakeAlertStore()
	alerts.err = errors.New("alerts down")
	stats := &fakeStatsStore{err: errors.New("stats down")}

	esc := newEscalation(flags, alerts, stats, testAlert("u3"))

	err := esc.Run(context.Background())
	if !errors.Is(err, ErrEscalationIncomplete) {
		t.Fatalf("expected ErrEscalationIncomplete, got %v", err)
	}
	if got := esc.Pending(); len(got) != 3 {
		t.Errorf("pending: got %v, want all three effects", got)
	}
}
