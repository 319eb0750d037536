package rating

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
)

// entropy computes the Shannon entropy H(p) = -p*log2(p) - (1-p)*log2(1-p)
// of the win probability p. H is symmetric around p=0.5 and is 0 at the
// extremes.
func entropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return -p*math.Log2(p) - (1-p)*math.Log2(1-p)
}

// winProbability returns the Elo-model probability that the path rated a
// beats the path rated b.
func winProbability(eloA, eloB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (eloB-eloA)/400.0))
}

// eligible reports whether a path may participate in a duel: PENDING or
// QUALIFIED, never SPENT.
func eligible(p *models.Path) bool {
	return p.Status == models.StatusPending || p.Status == models.StatusQualified
}

// SelectDuel picks the maximum-entropy pair within a cohort: among
// eligible candidates, the pair whose Elo difference is smallest, ties
// broken by lexicographically smallest pair of path_uuids. Returns
// ok=false if fewer than two candidates are eligible.
func SelectDuel(position int, predecessor uuid.UUID, cohort []*models.Path) (duel models.Duel, ok bool) {
	var candidates []*models.Path
	for _, p := range cohort {
		if eligible(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) < 2 {
		return models.Duel{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].PathUUID.String() < candidates[j].PathUUID.String()
	})

	var bestA, bestB *models.Path
	bestDiff := math.Inf(1)
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			diff := math.Abs(a.EloRating - b.EloRating)
			if diff < bestDiff {
				bestDiff = diff
				bestA, bestB = a, b
			}
		}
	}

	p := winProbability(bestA.EloRating, bestB.EloRating)
	return models.Duel{
		Position:    position,
		Predecessor: predecessor,
		PathA:       bestA.PathUUID,
		PathB:       bestB.PathUUID,
		Entropy:     entropy(p),
	}, true
}
