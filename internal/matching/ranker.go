package matching

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sparkmatch/engine/internal/domain"
	"github.com/sparkmatch/engine/internal/logging"
)

// ErrInvalidWeights indicates weight configuration that is malformed rather
// than merely absent. Absent weights get defaults; malformed weights are
// surfaced so the caller can fall back to an unranked candidate list.
var ErrInvalidWeights = errors.New("invalid ranking weights")

// neutralComposite is assigned to every candidate when both weights are zero,
// preserving the incoming candidate order.
const neutralComposite = 50

// Ranker orders candidate profiles by composite score for a requesting user.
// Candidates are expected to be pre-filtered (blocked/passed users and self
// removed) by the caller.
type Ranker struct {
	logger logging.Logger
}

// NewRanker creates a new candidate ranker.
func NewRanker(logger logging.Logger) *Ranker {
	return &Ranker{logger: logger}
}

// Rank scores every candidate against the requester and returns the list
// sorted by composite score, highest first. The sort is stable: ties keep
// their original candidate order so a fixed input always produces the same
// output. Rank never fails; weights outside [0,100] are clamped and a zero
// weight pair yields a neutral score for every candidate.
func (r *Ranker) Rank(requester *domain.Profile, candidates []domain.Profile, weights domain.RankingWeights) []domain.ScoredCandidate {
	start := time.Now()
	weights = weights.Clamped()

	scored := make([]domain.ScoredCandidate, len(candidates))
	for i := range candidates {
		candidate := &candidates[i]
		geo := GeoScore(requester, candidate)
		interest := InterestScore(requester, candidate)

		scored[i] = domain.ScoredCandidate{
			Profile:        candidates[i],
			GeoScore:       geo,
			InterestScore:  interest,
			CompositeScore: compositeScore(geo, interest, weights),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompositeScore > scored[j].CompositeScore
	})

	r.logger.Debug("candidates ranked",
		logging.String("requester_id", requester.ID),
		logging.Int("candidates", len(candidates)),
		logging.Int("geo_weight", weights.Geo),
		logging.Int("interest_weight", weights.Interest),
		logging.Duration("duration", time.Since(start)),
	)

	return scored
}

// compositeScore is the weighted average of the two sub-scores, rounded to
// the nearest integer. A zero weight sum means ranking is effectively
// disabled, so every candidate scores neutral instead of dividing by zero.
func compositeScore(geo, interest int, weights domain.RankingWeights) int {
	sum := weights.Geo + weights.Interest
	if sum == 0 {
		return neutralComposite
	}
	weighted := float64(geo*weights.Geo+interest*weights.Interest) / float64(sum)
	return int(math.Round(weighted))
}

// WeightsFromPayload coerces loosely typed weight values (decoded JSON, rows
// from a schemaless store) into RankingWeights. Non-numeric values return
// ErrInvalidWeights: malformed configuration is reported, never silently
// replaced with defaults.
func WeightsFromPayload(geo, interest any) (domain.RankingWeights, error) {
	g, err := coerceWeight(geo)
	if err != nil {
		return domain.RankingWeights{}, fmt.Errorf("geo weight: %w", err)
	}
	i, err := coerceWeight(interest)
	if err != nil {
		return domain.RankingWeights{}, fmt.Errorf("interest weight: %w", err)
	}
	return domain.RankingWeights{Geo: g, Interest: i}.Clamped(), nil
}

func coerceWeight(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != math.Trunc(val) || math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidWeights, val)
		}
		return int(val), nil
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidWeights, val.String())
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidWeights, v)
	}
}
