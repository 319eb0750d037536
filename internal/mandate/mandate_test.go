package mandate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestVotingPowerIsCeilSqrt(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 2, 3: 2, 4: 2, 5: 3, 9: 3, 10: 4}
	for position, want := range cases {
		assert.Equal(t, want, VotingPower(position), "position %d", position)
	}
}

func TestCheckTokenRejectsNonQualified(t *testing.T) {
	token := &models.Path{Position: 4, Status: models.StatusPending}
	assert.ErrorIs(t, CheckToken(token, false), ErrMandate)
}

func TestCheckTokenRejectsConsumed(t *testing.T) {
	token := &models.Path{Position: 4, Status: models.StatusQualified}
	assert.ErrorIs(t, CheckToken(token, true), ErrMandate)
}

func TestCheckTokenRejectsZeroVotingPower(t *testing.T) {
	token := &models.Path{Position: 0, Status: models.StatusQualified}
	assert.ErrorIs(t, CheckToken(token, false), ErrMandate)
}

func TestCheckTokenAcceptsQualifiedUnconsumed(t *testing.T) {
	token := &models.Path{Position: 4, Status: models.StatusQualified}
	assert.NoError(t, CheckToken(token, false))
}

func TestCheckVerdictsEnforcesCapacityAndDistinctTargets(t *testing.T) {
	assert.ErrorIs(t, CheckVerdicts(4, nil), ErrOverCapacity, "zero verdicts")

	tooMany := make([]models.Verdict, 3)
	for i := range tooMany {
		tooMany[i] = models.Verdict{TargetPosition: i}
	}
	assert.ErrorIs(t, CheckVerdicts(4, tooMany), ErrOverCapacity, "voting power at position 4 is 2")

	duplicate := []models.Verdict{{TargetPosition: 1}, {TargetPosition: 1}}
	assert.ErrorIs(t, CheckVerdicts(4, duplicate), ErrDuplicateVote)

	tooHigh := []models.Verdict{{TargetPosition: 4}}
	assert.ErrorIs(t, CheckVerdicts(4, tooHigh), ErrDuplicateVote, "target must precede the token's own position")

	valid := []models.Verdict{{TargetPosition: 1}, {TargetPosition: 2}}
	assert.NoError(t, CheckVerdicts(4, valid))
}

func TestCheckDuelMatchAcceptsEitherOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	duel := models.Duel{PathA: a, PathB: b}

	assert.NoError(t, CheckDuelMatch(models.Verdict{WinnerPath: a, LoserPath: b}, duel, true))
	assert.NoError(t, CheckDuelMatch(models.Verdict{WinnerPath: b, LoserPath: a}, duel, true))
	assert.ErrorIs(t, CheckDuelMatch(models.Verdict{WinnerPath: a, LoserPath: uuid.New()}, duel, true), ErrDuelMismatch)
	assert.ErrorIs(t, CheckDuelMatch(models.Verdict{WinnerPath: a, LoserPath: b}, duel, false), ErrDuelMismatch)
}

func TestCanonicalPredecessorPositionZeroIsZeroUUID(t *testing.T) {
	assert.Equal(t, models.ZeroUUID, CanonicalPredecessor(0, &models.Path{Current: uuid.New()}))
}

func TestCanonicalPredecessorUsesPriorCanonicalCurrent(t *testing.T) {
	prior := &models.Path{Current: uuid.New()}
	assert.Equal(t, prior.Current, CanonicalPredecessor(1, prior))
}
