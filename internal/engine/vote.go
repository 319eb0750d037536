package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/cascade"
	"github.com/hronir/engine/internal/identity"
	"github.com/hronir/engine/internal/ledger"
	"github.com/hronir/engine/internal/mandate"
	"github.com/hronir/engine/internal/models"
	"github.com/hronir/engine/internal/rating"
	"github.com/hronir/engine/internal/storage"
)

// CastVote validates and commits a vote transaction. On success it
// triggers the cascade starting at the lowest target position and
// returns the new transaction's id.
func (e *Engine) CastVote(ctx context.Context, votingToken uuid.UUID, verdicts []models.Verdict) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkWritable(); err != nil {
		return uuid.UUID{}, err
	}

	token, err := e.store.GetPath(ctx, votingToken)
	if err != nil {
		if err == storage.ErrNotFound {
			return uuid.UUID{}, fmt.Errorf("%w: voting token", ErrNotFound)
		}
		return uuid.UUID{}, fmt.Errorf("cast vote: %w", err)
	}

	consumed, err := e.store.IsTokenConsumed(ctx, votingToken)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cast vote: %w", err)
	}
	if err := mandate.CheckToken(token, consumed); err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %v", ErrMandate, err)
	}
	if err := mandate.CheckVerdicts(token.Position, verdicts); err != nil {
		if err == mandate.ErrDuplicateVote {
			return uuid.UUID{}, fmt.Errorf("%w: %v", ErrDuplicateVote, err)
		}
		return uuid.UUID{}, fmt.Errorf("%w: %v", ErrOverCapacity, err)
	}

	// Step 1-2: resolve and verify the active duel for every target
	// position.
	type resolved struct {
		verdict     models.Verdict
		predecessor uuid.UUID
	}
	var targets []resolved
	lowestTarget := verdicts[0].TargetPosition
	for _, v := range verdicts {
		predecessor, err := e.canonicalPredecessorAt(ctx, v.TargetPosition)
		if err != nil {
			return uuid.UUID{}, err
		}
		duel, found, err := e.resolveDuel(ctx, v.TargetPosition, predecessor)
		if err != nil {
			return uuid.UUID{}, err
		}
		if err := mandate.CheckDuelMatch(v, duel, found); err != nil {
			return uuid.UUID{}, fmt.Errorf("%w: %v", ErrDuelMismatch, err)
		}
		targets = append(targets, resolved{verdict: v, predecessor: predecessor})
		if v.TargetPosition < lowestTarget {
			lowestTarget = v.TargetPosition
		}
	}

	// Step 5 (sequence/hash) is resolved now because a freshly-QUALIFIED
	// path's mandate_id is derived from this same prev_tx_hash.
	latest, _, err := e.store.LatestTransaction(ctx)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cast vote: %w", err)
	}
	sequence, prevSequence, prevTxHash := ledger.Next(latest)

	// Step 3: build vote rows and Elo/qualification updates.
	var votes []models.Vote
	var eloUpdates []storage.EloUpdate
	var qualUpdates []storage.QualificationUpdate

	for _, t := range targets {
		winner, err := e.store.GetPath(ctx, t.verdict.WinnerPath)
		if err != nil {
			return uuid.UUID{}, fmt.Errorf("cast vote: %w", err)
		}
		loser, err := e.store.GetPath(ctx, t.verdict.LoserPath)
		if err != nil {
			return uuid.UUID{}, fmt.Errorf("cast vote: %w", err)
		}

		newWinnerElo, newLoserElo := rating.Update(winner.EloRating, loser.EloRating, e.cfg.Rating.EloK)
		eloUpdates = append(eloUpdates,
			storage.EloUpdate{PathUUID: winner.PathUUID, Elo: newWinnerElo},
			storage.EloUpdate{PathUUID: loser.PathUUID, Elo: newLoserElo},
		)

		votes = append(votes, models.Vote{
			VoteID:      identity.VoteID(votingToken, t.verdict.TargetPosition, t.verdict.WinnerPath, t.verdict.LoserPath),
			Position:    t.verdict.TargetPosition,
			VotingToken: votingToken,
			PathA:       t.verdict.WinnerPath,
			PathB:       t.verdict.LoserPath,
			ChosenSide:  models.SideA,
			CreatedAt:   now(),
		})

		// Winner and loser always belong to one cohort (this duel's target
		// position and predecessor). Both Elos must be finalized in that
		// cohort before either path's qualification is evaluated, or
		// whichever path is checked second sees the other's stale,
		// pre-vote rating.
		updatedWinner := *winner
		updatedWinner.EloRating = newWinnerElo
		updatedLoser := *loser
		updatedLoser.EloRating = newLoserElo

		cohort, err := e.store.ListCohort(ctx, t.verdict.TargetPosition, t.predecessor)
		if err != nil {
			return uuid.UUID{}, fmt.Errorf("cast vote: %w", err)
		}
		for i, cp := range cohort {
			switch cp.PathUUID {
			case updatedWinner.PathUUID:
				cohort[i] = &updatedWinner
			case updatedLoser.PathUUID:
				cohort[i] = &updatedLoser
			}
		}

		for _, updated := range []*models.Path{&updatedWinner, &updatedLoser} {
			if updated.Status != models.StatusPending {
				continue
			}
			participations, err := e.store.CountVoteParticipations(ctx, updated.PathUUID)
			if err != nil {
				return uuid.UUID{}, fmt.Errorf("cast vote: %w", err)
			}
			if rating.Qualifies(updated, cohort, participations+1, e.cfg.Rating.MinVotes, e.cfg.Rating.QualificationDelta) {
				qualUpdates = append(qualUpdates, storage.QualificationUpdate{
					PathUUID:  updated.PathUUID,
					Status:    models.StatusQualified,
					MandateID: identity.MandateID(updated.PathUUID, prevTxHash),
				})
			}
		}
	}

	// Step 5: build the transaction envelope from the sequence/hash
	// resolved above and compute its content hash.
	txn := models.Transaction{
		TxID:         identity.TxID(sequence, votingToken, prevTxHash),
		Sequence:     sequence,
		PrevSequence: prevSequence,
		PrevTxHash:   prevTxHash,
		VotingToken:  votingToken,
		Votes:        votes,
		CreatedAt:    now(),
	}
	txn, err = ledger.ComputeContentHash(txn)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("cast vote: %w", err)
	}

	if err := e.store.CommitVoteTransaction(ctx, txn, votingToken, eloUpdates, qualUpdates); err != nil {
		if err == storage.ErrConflict {
			return uuid.UUID{}, ErrConflict
		}
		return uuid.UUID{}, fmt.Errorf("cast vote: %w", err)
	}

	if e.cache != nil {
		for _, t := range targets {
			e.cache.Invalidate(t.verdict.TargetPosition, t.predecessor)
		}
	}

	// Step 6: cascade from the lowest affected position.
	if err := cascade.Run(ctx, e.store, lowestTarget); err != nil {
		return txn.TxID, fmt.Errorf("cast vote: committed but cascade failed: %w", err)
	}

	return txn.TxID, nil
}
