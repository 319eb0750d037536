package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedHronir(t *testing.T, ctx context.Context, s *SQLiteStore, text string) *models.Hronir {
	t.Helper()
	h := &models.Hronir{ID: uuid.New(), Text: text, CreatedAt: time.Now().UTC()}
	created, err := s.SaveHronir(ctx, h)
	require.NoError(t, err)
	require.True(t, created)
	return h
}

func TestSaveHronirIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	h := &models.Hronir{ID: uuid.New(), Text: "alpha\n", CreatedAt: time.Now().UTC()}
	created, err := s.SaveHronir(ctx, h)
	require.NoError(t, err)
	require.True(t, created)

	again := &models.Hronir{ID: h.ID, Text: "alpha\n", CreatedAt: time.Now().UTC()}
	created, err = s.SaveHronir(ctx, again)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, h.CreatedAt.Unix(), again.CreatedAt.Unix())
}

func TestSavePathIsIdempotentAndFindable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	h := seedHronir(t, ctx, s, "root\n")

	p := &models.Path{
		PathUUID: uuid.New(), Position: 0, Predecessor: models.ZeroUUID, Current: h.ID,
		Status: models.StatusPending, EloRating: 1500, CreatedAt: time.Now().UTC(),
	}
	created, err := s.SavePath(ctx, p)
	require.NoError(t, err)
	require.True(t, created)

	found, err := s.FindPath(ctx, 0, models.ZeroUUID, h.ID)
	require.NoError(t, err)
	require.Equal(t, p.PathUUID, found.PathUUID)

	again := *p
	created, err = s.SavePath(ctx, &again)
	require.NoError(t, err)
	require.False(t, created)
}

func TestListCohortFiltersByPositionAndPredecessor(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	root := seedHronir(t, ctx, s, "root\n")
	childA := seedHronir(t, ctx, s, "child a\n")
	childB := seedHronir(t, ctx, s, "child b\n")

	for _, current := range []uuid.UUID{childA.ID, childB.ID} {
		p := &models.Path{PathUUID: uuid.New(), Position: 1, Predecessor: root.ID, Current: current, Status: models.StatusPending, EloRating: 1500, CreatedAt: time.Now().UTC()}
		_, err := s.SavePath(ctx, p)
		require.NoError(t, err)
	}
	// A path in an unrelated cohort must not show up.
	other := seedHronir(t, ctx, s, "other root\n")
	unrelated := &models.Path{PathUUID: uuid.New(), Position: 1, Predecessor: other.ID, Current: childA.ID, Status: models.StatusPending, EloRating: 1500, CreatedAt: time.Now().UTC()}
	_, err := s.SavePath(ctx, unrelated)
	require.NoError(t, err)

	cohort, err := s.ListCohort(ctx, 1, root.ID)
	require.NoError(t, err)
	require.Len(t, cohort, 2)
}

func TestSetCanonicalClearsPriorFlagAtSamePosition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	root := seedHronir(t, ctx, s, "root\n")
	a := seedHronir(t, ctx, s, "a\n")
	b := seedHronir(t, ctx, s, "b\n")

	pa := &models.Path{PathUUID: uuid.New(), Position: 1, Predecessor: root.ID, Current: a.ID, Status: models.StatusPending, EloRating: 1500, CreatedAt: time.Now().UTC()}
	pb := &models.Path{PathUUID: uuid.New(), Position: 1, Predecessor: root.ID, Current: b.ID, Status: models.StatusPending, EloRating: 1500, CreatedAt: time.Now().UTC()}
	_, err := s.SavePath(ctx, pa)
	require.NoError(t, err)
	_, err = s.SavePath(ctx, pb)
	require.NoError(t, err)

	require.NoError(t, s.SetCanonical(ctx, 1, pa.PathUUID))
	got, err := s.GetCanonicalAt(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, pa.PathUUID, got.PathUUID)

	require.NoError(t, s.SetCanonical(ctx, 1, pb.PathUUID))
	got, err = s.GetCanonicalAt(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, pb.PathUUID, got.PathUUID)
}

func TestCommitVoteTransactionDetectsSequenceConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	root := seedHronir(t, ctx, s, "root\n")
	token, otherToken := uuid.New(), uuid.New()
	for i, id := range []uuid.UUID{token, otherToken} {
		child := seedHronir(t, ctx, s, fmt.Sprintf("child %d\n", i))
		p := &models.Path{PathUUID: id, Position: 1, Predecessor: root.ID, Current: child.ID, Status: models.StatusQualified, EloRating: 1500, CreatedAt: time.Now().UTC()}
		_, err := s.SavePath(ctx, p)
		require.NoError(t, err)
	}

	tx := models.Transaction{
		TxID: uuid.New(), Sequence: 0, PrevSequence: -1, PrevTxHash: make([]byte, 32),
		VotingToken: token, ContentHash: []byte("hash-0"), CreatedAt: time.Now().UTC(),
	}
	err := s.CommitVoteTransaction(ctx, tx, token, nil, nil)
	require.NoError(t, err)

	// A second transaction claiming the same sequence must conflict.
	dup := tx
	dup.TxID = uuid.New()
	dup.VotingToken = otherToken
	dup.ContentHash = []byte("hash-0-dup")
	err = s.CommitVoteTransaction(ctx, dup, dup.VotingToken, nil, nil)
	require.ErrorIs(t, err, ErrConflict)
}

func TestQualificationUpdateSetsMandateID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	root := seedHronir(t, ctx, s, "root\n")
	child := seedHronir(t, ctx, s, "child\n")

	p := &models.Path{PathUUID: uuid.New(), Position: 1, Predecessor: root.ID, Current: child.ID, Status: models.StatusPending, EloRating: 1500, CreatedAt: time.Now().UTC()}
	_, err := s.SavePath(ctx, p)
	require.NoError(t, err)

	mandateID := []byte("0123456789abcdef")
	tx := models.Transaction{
		TxID: uuid.New(), Sequence: 0, PrevSequence: -1, PrevTxHash: make([]byte, 32),
		VotingToken: p.PathUUID, ContentHash: []byte("hash"), CreatedAt: time.Now().UTC(),
	}
	err = s.CommitVoteTransaction(ctx, tx, p.PathUUID, nil, []QualificationUpdate{
		{PathUUID: p.PathUUID, Status: models.StatusSpent, MandateID: mandateID},
	})
	require.NoError(t, err)

	got, err := s.GetPath(ctx, p.PathUUID)
	require.NoError(t, err)
	require.Equal(t, mandateID, got.MandateID)
	require.Equal(t, models.StatusSpent, got.Status)
}
