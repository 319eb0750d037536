package rating

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	"github.com/stretchr/testify/assert"
)

func path(id uuid.UUID, elo float64) *models.Path {
	return &models.Path{PathUUID: id, EloRating: elo, Status: models.StatusPending}
}

func TestRankOrdersByEloDescendingThenUUID(t *testing.T) {
	low, high := uuid.New(), uuid.New()
	if low.String() > high.String() {
		low, high = high, low
	}

	paths := []*models.Path{
		path(high, 1500),
		path(low, 1500),
	}
	ranked := Rank(paths)
	assert.Equal(t, low, ranked[0].PathUUID, "equal Elo ties break lexicographically")

	a, b := uuid.New(), uuid.New()
	ranked = Rank([]*models.Path{path(a, 1400), path(b, 1600)})
	assert.Equal(t, b, ranked[0].PathUUID)
}

func TestQualifiesRequiresMinVotesAndMedianDelta(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	cohort := []*models.Path{path(a, 1400), path(b, 1500), path(c, 1600)}

	candidate := path(c, 1600)
	assert.True(t, Qualifies(candidate, cohort, 1, 1, 0))
	assert.False(t, Qualifies(candidate, cohort, 0, 1, 0), "insufficient vote participations")

	median := path(b, 1500)
	assert.False(t, Qualifies(median, cohort, 5, 1, 0), "median itself is not strictly above median")

	assert.False(t, Qualifies(candidate, cohort, 5, 1, 150), "delta larger than the margin above median blocks qualification")
}
