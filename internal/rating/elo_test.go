package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateEqualRatingsSplitEvenly(t *testing.T) {
	newWinner, newLoser := Update(1500, 1500, 32)
	assert.InDelta(t, 1516, newWinner, 0.5)
	assert.InDelta(t, 1484, newLoser, 0.5)
}

func TestUpdateConservesTotalRating(t *testing.T) {
	winner, loser := 1600.0, 1400.0
	newWinner, newLoser := Update(winner, loser, 32)
	assert.InDelta(t, winner+loser, newWinner+newLoser, 1e-9)
}

func TestUpdateFavoriteWinningGainsLess(t *testing.T) {
	// Favorite (higher-rated) beats underdog: small gain.
	favWinner, favLoser := Update(1700, 1300, 32)
	// Underdog beats favorite: large gain.
	dogWinner, dogLoser := Update(1300, 1700, 32)

	favGain := favWinner - 1700
	dogGain := dogWinner - 1300
	assert.Less(t, favGain, dogGain)
	_ = favLoser
	_ = dogLoser
}
