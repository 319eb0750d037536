// Package mandate computes voting power and the vote-casting
// preconditions. It holds no state of its own; it is a pure decision
// layer the engine consults before committing a vote transaction.
package mandate

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
)

// Sentinel errors surfaced at the engine boundary.
var (
	ErrMandate       = errors.New("mandate invalid")
	ErrDuelMismatch  = errors.New("verdict does not match active duel")
	ErrOverCapacity  = errors.New("verdict count outside voting power")
	ErrDuplicateVote = errors.New("duplicate or invalid target position")
)

// VotingPower returns the number of verdicts a path at the given position
// may cast, ⌈√N⌉. Position 0 has zero voting power.
func VotingPower(position int) int {
	if position <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(position))))
}

// CheckToken validates the voting-token preconditions: the
// token path must exist, be QUALIFIED, and not already consumed.
func CheckToken(token *models.Path, consumed bool) error {
	if token.Status != models.StatusQualified {
		return ErrMandate
	}
	if consumed {
		return ErrMandate
	}
	if VotingPower(token.Position) == 0 {
		return ErrMandate
	}
	return nil
}

// CheckVerdicts validates the verdict-list preconditions:
// count bounds and distinctness of target positions, and that every
// target position precedes the token's own position.
func CheckVerdicts(tokenPosition int, verdicts []models.Verdict) error {
	power := VotingPower(tokenPosition)
	if len(verdicts) < 1 || len(verdicts) > power {
		return ErrOverCapacity
	}

	seen := make(map[int]bool, len(verdicts))
	for _, v := range verdicts {
		if v.TargetPosition >= tokenPosition {
			return ErrDuplicateVote
		}
		if seen[v.TargetPosition] {
			return ErrDuplicateVote
		}
		seen[v.TargetPosition] = true
	}
	return nil
}

// CheckDuelMatch validates that a verdict's winner/loser pair names
// exactly the currently active duel for its target position, in either
// order.
func CheckDuelMatch(verdict models.Verdict, duel models.Duel, duelFound bool) error {
	if !duelFound {
		return ErrDuelMismatch
	}
	matchesForward := verdict.WinnerPath == duel.PathA && verdict.LoserPath == duel.PathB
	matchesReverse := verdict.WinnerPath == duel.PathB && verdict.LoserPath == duel.PathA
	if !matchesForward && !matchesReverse {
		return ErrDuelMismatch
	}
	return nil
}

// CanonicalPredecessor resolves the canonical predecessor for a target
// position: the current hrönir of the canonical path at targetPosition-1,
// or the zero UUID at position 0.
func CanonicalPredecessor(targetPosition int, canonicalAtPrevious *models.Path) uuid.UUID {
	if targetPosition == 0 {
		return models.ZeroUUID
	}
	if canonicalAtPrevious == nil {
		return models.ZeroUUID
	}
	return canonicalAtPrevious.Current
}
