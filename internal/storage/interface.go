// Package storage implements the hrönir object store: an
// ACID-compliant embedded relational store holding hrönirs, paths, votes,
// transactions and consumed tokens, behind a single backend-agnostic
// interface with SQLite and Postgres implementations.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
)

// Sentinel errors surfaced at the store boundary.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// EloUpdate carries a new Elo rating for a path, applied as part of an
// atomic vote commit.
type EloUpdate struct {
	PathUUID uuid.UUID
	Elo      float64
}

// QualificationUpdate carries a new lifecycle status for a path, applied as
// part of an atomic vote commit. MandateID is set when Status transitions
// to QUALIFIED and left nil otherwise.
type QualificationUpdate struct {
	PathUUID  uuid.UUID
	Status    models.PathStatus
	MandateID []byte
}

// Store is the full object-store surface the engine drives. Every
// mutating method that spans multiple rows is internally transactional;
// CommitVoteTransaction additionally spans multiple tables atomically as
// a single commit.
type Store interface {
	// Hrönirs.
	SaveHronir(ctx context.Context, h *models.Hronir) (created bool, err error)
	GetHronir(ctx context.Context, id uuid.UUID) (*models.Hronir, error)
	HronirExists(ctx context.Context, id uuid.UUID) (bool, error)

	// Paths.
	SavePath(ctx context.Context, p *models.Path) (created bool, err error)
	GetPath(ctx context.Context, pathUUID uuid.UUID) (*models.Path, error)
	FindPath(ctx context.Context, position int, predecessor, current uuid.UUID) (*models.Path, error)
	ListCohort(ctx context.Context, position int, predecessor uuid.UUID) ([]*models.Path, error)
	ListAllPaths(ctx context.Context) ([]*models.Path, error)
	UpdatePathElo(ctx context.Context, pathUUID uuid.UUID, elo float64) error
	UpdatePathStatus(ctx context.Context, pathUUID uuid.UUID, status models.PathStatus) error
	SetCanonical(ctx context.Context, position int, pathUUID uuid.UUID) error
	ClearCanonicalFrom(ctx context.Context, position int) error
	GetCanonicalAt(ctx context.Context, position int) (*models.Path, error)
	MaxPosition(ctx context.Context) (position int, ok bool, err error)

	// Mandate/voting bookkeeping.
	CountVoteParticipations(ctx context.Context, pathUUID uuid.UUID) (int, error)
	IsTokenConsumed(ctx context.Context, pathUUID uuid.UUID) (bool, error)

	// Ledger.
	LatestTransaction(ctx context.Context) (tx *models.Transaction, ok bool, err error)
	AllTransactions(ctx context.Context) ([]*models.Transaction, error)

	// CommitVoteTransaction performs the vote-commit steps atomically: it
	// inserts the vote rows, applies Elo and qualification updates, marks
	// votingToken SPENT and consumed, and appends the transaction row. The
	// transactions.sequence UNIQUE constraint is the store's serializable
	// guard: if a concurrent writer already claimed tx.Sequence, the insert
	// fails and CommitVoteTransaction returns ErrConflict.
	CommitVoteTransaction(ctx context.Context, tx models.Transaction, votingToken uuid.UUID, eloUpdates []EloUpdate, qualUpdates []QualificationUpdate) error

	Close() error
}
