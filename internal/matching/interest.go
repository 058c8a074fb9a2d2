package matching

import (
	"math"
	"strings"

	"github.com/sparkmatch/engine/internal/domain"
)

const (
	interestScoreNeutral = 50
	// Bio tokens this short ("the", "and", city abbreviations) carry no
	// signal and are dropped before comparing.
	bioTokenMinLength = 3
)

// InterestScore computes a 0-100 overlap score between two profiles. When
// both profiles carry interest tags it is Jaccard similarity over the tag
// sets; otherwise it falls back to a token-set comparison of the bios. A
// profile pair with nothing to compare scores neutral, never zero.
func InterestScore(a, b *domain.Profile) int {
	if len(a.Interests) > 0 && len(b.Interests) > 0 {
		return jaccardScore(tagSet(a.Interests), tagSet(b.Interests))
	}
	return bioSimilarityScore(a.Bio, b.Bio)
}

func bioSimilarityScore(a, b string) int {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return interestScoreNeutral
	}
	return jaccardScore(bioTokenSet(a), bioTokenSet(b))
}

// jaccardScore returns round(100 * |intersection| / |union|), or neutral when
// the union is empty.
func jaccardScore(a, b map[string]struct{}) int {
	intersection := 0
	for tag := range a {
		if _, ok := b[tag]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return interestScoreNeutral
	}
	return int(math.Round(100 * float64(intersection) / float64(union)))
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func bioTokenSet(bio string) map[string]struct{} {
	tokens := strings.Fields(strings.ToLower(bio))
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if len(token) > bioTokenMinLength {
			set[token] = struct{}{}
		}
	}
	return set
}
