package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/identity"
	"github.com/hronir/engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextGenesis(t *testing.T) {
	sequence, prevSequence, prevHash := Next(nil)
	assert.Equal(t, int64(0), sequence)
	assert.Equal(t, GenesisSequence, prevSequence)
	assert.Equal(t, identity.ZeroHash, prevHash)
}

func TestNextChainsFromLatest(t *testing.T) {
	latest := &models.Transaction{Sequence: 4, ContentHash: []byte("hash-of-four")}
	sequence, prevSequence, prevHash := Next(latest)
	assert.Equal(t, int64(5), sequence)
	assert.Equal(t, int64(4), prevSequence)
	assert.Equal(t, latest.ContentHash, prevHash)
}

func buildChain(t *testing.T, n int) []*models.Transaction {
	t.Helper()
	var txs []*models.Transaction
	var prevHash = identity.ZeroHash
	for i := 0; i < n; i++ {
		tx := models.Transaction{
			TxID:         uuid.New(),
			Sequence:     int64(i),
			PrevSequence: int64(i) - 1,
			PrevTxHash:   prevHash,
			VotingToken:  uuid.New(),
		}
		tx, err := ComputeContentHash(tx)
		require.NoError(t, err)
		txs = append(txs, &tx)
		prevHash = tx.ContentHash
	}
	return txs
}

func TestVerifyChainAcceptsValidChain(t *testing.T) {
	txs := buildChain(t, 5)
	require.NoError(t, VerifyChain(txs))
}

func TestVerifyChainDetectsSequenceGap(t *testing.T) {
	txs := buildChain(t, 3)
	txs[2].Sequence = 5
	assert.ErrorIs(t, VerifyChain(txs), ErrIntegrity)
}

func TestVerifyChainDetectsBrokenHashLink(t *testing.T) {
	txs := buildChain(t, 3)
	txs[1].PrevTxHash = []byte("tampered")
	assert.ErrorIs(t, VerifyChain(txs), ErrIntegrity)
}

func TestVerifyChainDetectsTamperedContent(t *testing.T) {
	txs := buildChain(t, 2)
	txs[1].VotingToken = uuid.New() // mutate without recomputing content hash
	assert.ErrorIs(t, VerifyChain(txs), ErrIntegrity)
}

func TestVerifyConsumedTokensRequiresExactlyOneReference(t *testing.T) {
	token := uuid.New()
	txs := []*models.Transaction{
		{VotingToken: token},
	}
	paths := map[uuid.UUID]*models.Path{
		token: {PathUUID: token, Status: models.StatusSpent},
	}
	require.NoError(t, VerifyConsumedTokens(txs, paths))

	txs = append(txs, &models.Transaction{VotingToken: token})
	assert.ErrorIs(t, VerifyConsumedTokens(txs, paths), ErrIntegrity, "referenced twice")
}

func TestVerifyConsumedTokensRequiresSpentStatus(t *testing.T) {
	token := uuid.New()
	txs := []*models.Transaction{{VotingToken: token}}
	paths := map[uuid.UUID]*models.Path{
		token: {PathUUID: token, Status: models.StatusQualified},
	}
	assert.ErrorIs(t, VerifyConsumedTokens(txs, paths), ErrIntegrity)
}
