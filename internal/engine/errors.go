package engine

import "errors"

// Sentinel errors surfaced at the engine's programmatic boundary. Most
// are wrapped with fmt.Errorf("%w: ...", ...) for context; ErrConflict
// and ErrIntegrity are returned unwrapped. This matches the storage.ErrNotFound/storage.ErrConflict
// wrapping convention in internal/storage.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidEdge   = errors.New("invalid edge")
	ErrDuplicateVote = errors.New("duplicate or invalid target position")
	ErrMandate       = errors.New("mandate invalid")
	ErrDuelMismatch  = errors.New("verdict does not match active duel")
	ErrOverCapacity  = errors.New("verdict count outside voting power")
	ErrConflict      = errors.New("concurrent writer committed, retry")
	ErrIntegrity     = errors.New("ledger integrity violation, engine is read-only")
)
