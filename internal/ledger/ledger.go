// Package ledger builds and verifies the append-only, hash-chained
// transaction log.
package ledger

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/identity"
	"github.com/hronir/engine/internal/models"
)

// ErrIntegrity is returned when the chain of sequence numbers or hashes is
// broken; it is fatal and puts the engine into read-only mode.
var ErrIntegrity = errors.New("ledger integrity violation")

// GenesisSequence is the prev_sequence recorded by the first transaction.
const GenesisSequence int64 = -1

// Next builds the transaction envelope fields (sequence, prev_sequence,
// prev_tx_hash) that follow the latest committed transaction. latest is
// nil for an empty ledger.
func Next(latest *models.Transaction) (sequence, prevSequence int64, prevTxHash []byte) {
	if latest == nil {
		return 0, GenesisSequence, identity.ZeroHash
	}
	return latest.Sequence + 1, latest.Sequence, latest.ContentHash
}

// ComputeContentHash fills tx.ContentHash via the canonical-JSON hash of
// the transaction, mutating a copy so the original votingToken bundle is
// untouched by a failed attempt.
func ComputeContentHash(tx models.Transaction) (models.Transaction, error) {
	hash, err := identity.TxContentHash(tx)
	if err != nil {
		return tx, fmt.Errorf("compute content hash: %w", err)
	}
	tx.ContentHash = hash
	return tx, nil
}

// VerifyChain checks hash-chain integrity across the full committed
// sequence: sequence is contiguous starting at 0, prev_sequence =
// sequence-1, and prev_tx_hash equals the content hash of the prior
// transaction (or the zero sentinel for the first).
func VerifyChain(txs []*models.Transaction) error {
	var prevHash = identity.ZeroHash
	for i, tx := range txs {
		wantSeq := int64(i)
		if tx.Sequence != wantSeq {
			return fmt.Errorf("%w: transaction at index %d has sequence %d, want %d", ErrIntegrity, i, tx.Sequence, wantSeq)
		}
		wantPrevSeq := wantSeq - 1
		if tx.PrevSequence != wantPrevSeq {
			return fmt.Errorf("%w: transaction %d has prev_sequence %d, want %d", ErrIntegrity, tx.Sequence, tx.PrevSequence, wantPrevSeq)
		}
		if !bytes.Equal(tx.PrevTxHash, prevHash) {
			return fmt.Errorf("%w: transaction %d has a prev_tx_hash that does not match transaction %d's content hash", ErrIntegrity, tx.Sequence, tx.PrevSequence)
		}
		computed, err := identity.TxContentHash(*tx)
		if err != nil {
			return fmt.Errorf("compute content hash for transaction %d: %w", tx.Sequence, err)
		}
		if !bytes.Equal(computed, tx.ContentHash) {
			return fmt.Errorf("%w: transaction %d content hash does not match its recorded votes", ErrIntegrity, tx.Sequence)
		}
		prevHash = tx.ContentHash
	}
	return nil
}

// VerifyConsumedTokens checks that every consumed token's path is SPENT
// and is referenced as voting_token by exactly one transaction.
func VerifyConsumedTokens(txs []*models.Transaction, pathByUUID map[uuid.UUID]*models.Path) error {
	refCount := make(map[uuid.UUID]int)
	for _, tx := range txs {
		refCount[tx.VotingToken]++
	}
	for token, count := range refCount {
		if count != 1 {
			return fmt.Errorf("%w: voting token %s referenced by %d transactions, want exactly 1", ErrIntegrity, token, count)
		}
		p, ok := pathByUUID[token]
		if !ok {
			return fmt.Errorf("%w: voting token %s does not reference an existing path", ErrIntegrity, token)
		}
		if p.Status != models.StatusSpent {
			return fmt.Errorf("%w: consumed voting token %s is not SPENT", ErrIntegrity, token)
		}
	}
	return nil
}
