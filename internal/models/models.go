// Package models holds the persisted object kinds of the hrönir protocol
// engine: hrönirs, paths, votes and transactions.
package models

import (
	"time"

	"github.com/google/uuid"
)

// PathStatus is the lifecycle state of a Path.
type PathStatus string

const (
	StatusPending   PathStatus = "PENDING"
	StatusQualified PathStatus = "QUALIFIED"
	StatusSpent     PathStatus = "SPENT"
)

// Side identifies which path in a duel a verdict favors.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// ZeroUUID is the sentinel predecessor for position 0 paths.
var ZeroUUID = uuid.UUID{}

// Hronir is an immutable text artifact identified by the UUID5 of its
// normalized content.
type Hronir struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Path is a directed narrative edge asserting that Current succeeds
// Predecessor at Position.
type Path struct {
	PathUUID    uuid.UUID  `json:"path_uuid" db:"path_uuid"`
	Position    int        `json:"position" db:"position"`
	Predecessor uuid.UUID  `json:"predecessor" db:"predecessor"`
	Current     uuid.UUID  `json:"current" db:"current"`
	Status      PathStatus `json:"status" db:"status"`
	MandateID   []byte     `json:"mandate_id,omitempty" db:"mandate_id"`
	IsCanonical bool       `json:"is_canonical" db:"is_canonical"`
	EloRating   float64    `json:"elo_rating" db:"elo_rating"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Verdict is one ranked judgment cast within a vote transaction.
type Verdict struct {
	TargetPosition int       `json:"target_position"`
	WinnerPath     uuid.UUID `json:"winner_path"`
	LoserPath      uuid.UUID `json:"loser_path"`
}

// Vote is a single persisted verdict row belonging to a transaction.
type Vote struct {
	VoteID      uuid.UUID `json:"vote_id" db:"vote_id"`
	Position    int       `json:"position" db:"position"`
	VotingToken uuid.UUID `json:"voting_token" db:"voting_token"`
	PathA       uuid.UUID `json:"path_a" db:"path_a"`
	PathB       uuid.UUID `json:"path_b" db:"path_b"`
	ChosenSide  Side      `json:"chosen_side" db:"chosen_side"`
	TxID        uuid.UUID `json:"tx_id" db:"tx_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Transaction bundles the votes committed by a single voting_token in one
// atomic, hash-chained ledger entry.
type Transaction struct {
	TxID         uuid.UUID `json:"tx_id" db:"tx_id"`
	Sequence     int64     `json:"sequence" db:"sequence"`
	PrevSequence int64     `json:"prev_sequence" db:"prev_sequence"`
	PrevTxHash   []byte    `json:"prev_tx_hash" db:"prev_tx_hash"`
	VotingToken  uuid.UUID `json:"voting_token" db:"voting_token"`
	Votes        []Vote    `json:"votes" db:"-"`
	ContentHash  []byte    `json:"content_hash" db:"content_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RankedPath is one row of a get_ranking response.
type RankedPath struct {
	PathUUID uuid.UUID  `json:"path_uuid"`
	Elo      float64    `json:"elo"`
	Status   PathStatus `json:"status"`
}

// Duel is the maximum-entropy pair selected for adjudication at a position.
// It is not persisted in its own right; the engine may cache it
// but always treats the cache as advisory.
type Duel struct {
	Position    int       `json:"position"`
	Predecessor uuid.UUID `json:"predecessor"`
	PathA       uuid.UUID `json:"path_a"`
	PathB       uuid.UUID `json:"path_b"`
	Entropy     float64   `json:"entropy"`
}

// PathStatusView is the response shape of path_status.
type PathStatusView struct {
	Status      PathStatus `json:"status"`
	Position    int        `json:"position"`
	Elo         float64    `json:"elo"`
	MandateID   []byte     `json:"mandate_id,omitempty"`
	IsCanonical bool       `json:"is_canonical"`
}

// CanonicalEntry is one row of get_canonical_path.
type CanonicalEntry struct {
	Position int       `json:"position"`
	PathUUID uuid.UUID `json:"path_uuid"`
	HronirID uuid.UUID `json:"hronir_id"`
}
