// Package rating implements the Elo rating engine, qualification
// evaluation, and maximum-entropy duel selection.
package rating

import "math"

// InitialElo is the rating assigned to every newly-registered path.
const InitialElo = 1500.0

// Update computes the new Elo ratings for the winner and loser of a duel,
// given the configured K-factor.
func Update(winnerElo, loserElo, k float64) (newWinnerElo, newLoserElo float64) {
	expectedWinner := 1.0 / (1.0 + math.Pow(10, (loserElo-winnerElo)/400.0))
	newWinnerElo = winnerElo + k*(1.0-expectedWinner)
	newLoserElo = loserElo - k*(1.0-expectedWinner)
	return newWinnerElo, newLoserElo
}
