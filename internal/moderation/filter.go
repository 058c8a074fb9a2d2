package moderation

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/sparkmatch/engine/internal/domain"
	"github.com/sparkmatch/engine/internal/logging"
)

// KeywordFilter scans outbound message text against the union of the built-in
// baseline phrase list and the administrator-supplied dynamic list. Matching
// is case-insensitive substring matching in a single Aho-Corasick pass.
//
// The automaton is only rebuilt when the dynamic list changes; rebuilds are
// guarded so concurrent scans never observe a half-built matcher.
type KeywordFilter struct {
	mu      sync.RWMutex
	matcher *ahocorasick.Matcher
	// phrases holds baseline phrases first, then dynamic ones, so the
	// lowest matching index is always the phrase to report.
	phrases []string
	dynamic []string
	logger  logging.Logger
}

// NewKeywordFilter creates a filter with only the baseline list active.
func NewKeywordFilter(logger logging.Logger) *KeywordFilter {
	f := &KeywordFilter{logger: logger}
	f.rebuildLocked(nil)
	return f
}

// UpdateDynamic replaces the administrator-supplied phrase list. Phrases are
// lowercased and deduplicated against the baseline; a nil or unchanged list
// is a no-op so callers can pass the current settings on every evaluation.
func (f *KeywordFilter) UpdateDynamic(phrases []string) {
	normalized := normalizePhrases(phrases)

	f.mu.Lock()
	defer f.mu.Unlock()

	if slices.Equal(f.dynamic, normalized) {
		return
	}
	f.rebuildLocked(normalized)

	f.logger.Info("keyword filter updated",
		logging.Int("baseline_phrases", len(baselineKeywords)),
		logging.Int("dynamic_phrases", len(normalized)),
	)
}

// rebuildLocked constructs the Aho-Corasick automaton.
// MUST be called with f.mu held (or from the constructor, before sharing).
func (f *KeywordFilter) rebuildLocked(dynamic []string) {
	f.dynamic = dynamic
	f.phrases = make([]string, 0, len(baselineKeywords)+len(dynamic))
	f.phrases = append(f.phrases, baselineKeywords...)
	for _, p := range dynamic {
		if !slices.Contains(f.phrases, p) {
			f.phrases = append(f.phrases, p)
		}
	}
	f.matcher = ahocorasick.NewStringMatcher(f.phrases)
}

// Scan returns a flagged decision naming the first banned phrase found, with
// baseline phrases winning over dynamic ones when both match. It is pure and
// never fails; clean text returns an unflagged decision.
func (f *KeywordFilter) Scan(text string) domain.ModerationDecision {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.matcher == nil {
		return domain.ModerationDecision{}
	}

	hits := f.matcher.Match([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return domain.ModerationDecision{}
	}

	// Report the earliest phrase in list order, not text order.
	first := hits[0]
	for _, hit := range hits[1:] {
		if hit < first {
			first = hit
		}
	}

	phrase := f.phrases[first]
	return domain.ModerationDecision{
		Flagged:    true,
		Reason:     fmt.Sprintf("Keyword Violation: %s", phrase),
		Categories: []string{"keyword"},
	}
}

// PhraseCount returns the number of active phrases, baseline included.
func (f *KeywordFilter) PhraseCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.phrases)
}

func normalizePhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		normalized := strings.ToLower(strings.TrimSpace(p))
		if normalized == "" {
			continue
		}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
