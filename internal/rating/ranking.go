package rating

import (
	"sort"

	"github.com/hronir/engine/internal/models"
)

// Rank sorts a cohort's paths by Elo descending, ties broken
// lexicographically by path_uuid. The input slice is not mutated.
func Rank(paths []*models.Path) []*models.Path {
	ranked := make([]*models.Path, len(paths))
	copy(ranked, paths)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].EloRating != ranked[j].EloRating {
			return ranked[i].EloRating > ranked[j].EloRating
		}
		return ranked[i].PathUUID.String() < ranked[j].PathUUID.String()
	})
	return ranked
}

// median returns the median Elo of a non-empty, Elo-sorted-descending
// cohort.
func median(ranked []*models.Path) float64 {
	n := len(ranked)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return ranked[n/2].EloRating
	}
	return (ranked[n/2-1].EloRating + ranked[n/2].EloRating) / 2.0
}

// Qualifies reports whether a PENDING path has crossed the qualification
// threshold: at least minVotes recorded vote participations,
// and an Elo strictly greater than the cohort median by at least delta.
func Qualifies(path *models.Path, cohort []*models.Path, voteParticipations, minVotes int, delta float64) bool {
	if voteParticipations < minVotes {
		return false
	}
	ranked := Rank(cohort)
	m := median(ranked)
	return path.EloRating > m+delta
}
