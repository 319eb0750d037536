package dag

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newID() uuid.UUID { return uuid.New() }

func TestValidatePositionZeroRequiresEmptyPredecessor(t *testing.T) {
	idx := New()
	current := newID()

	err := idx.Validate(0, models.ZeroUUID, current, true, true)
	require.NoError(t, err)

	nonZero := newID()
	err = idx.Validate(0, nonZero, current, true, true)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestValidateNonZeroPositionRequiresPredecessor(t *testing.T) {
	idx := New()
	current := newID()

	err := idx.Validate(1, models.ZeroUUID, current, true, true)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestValidateRejectsMissingReferences(t *testing.T) {
	idx := New()
	predecessor, current := newID(), newID()

	err := idx.Validate(1, predecessor, current, false, true)
	assert.ErrorIs(t, err, ErrInvalidEdge)

	err = idx.Validate(1, predecessor, current, true, false)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestValidateRejectsDuplicateEdge(t *testing.T) {
	idx := New()
	predecessor, current := newID(), newID()

	require.NoError(t, idx.Validate(1, predecessor, current, true, true))
	idx.Add(1, predecessor, current)

	err := idx.Validate(1, predecessor, current, true, true)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestValidateRejectsCycle(t *testing.T) {
	idx := New()
	a, b := newID(), newID()

	require.NoError(t, idx.Validate(1, a, b, true, true))
	idx.Add(1, a, b)

	// b -> a would close a cycle since a already reaches b.
	err := idx.Validate(2, b, a, true, true)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestValidateAllowsDiamondShapedGraph(t *testing.T) {
	idx := New()
	root, left, right, join := newID(), newID(), newID(), newID()

	idx.Add(1, root, left)
	idx.Add(1, root, right)

	// join succeeds both left and right at different positions: not a cycle.
	require.NoError(t, idx.Validate(2, left, join, true, true))
	idx.Add(2, left, join)
	require.NoError(t, idx.Validate(2, right, join, true, true))
}

func TestLoadRebuildsIndexFromPersistedPaths(t *testing.T) {
	a, b := newID(), newID()
	paths := []*models.Path{
		{Position: 1, Predecessor: a, Current: b},
	}
	idx := Load(paths)

	err := idx.Validate(1, a, b, true, true)
	assert.ErrorIs(t, err, ErrInvalidEdge, "edge already loaded must be rejected as a duplicate")
}
