package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/identity"
)

// Manifest is the minimal header handed to an external snapshot
// exporter. The engine never signs a manifest itself; PGP signing and
// distribution remain out of scope.
type Manifest struct {
	NetworkUUID         uuid.UUID `json:"network_uuid"`
	Sequence            int64     `json:"sequence"`
	PrevSequence        int64     `json:"prev_sequence"`
	ContentHashOfLatest []byte    `json:"content_hash_of_latest_tx"`
	CreatedAt           time.Time `json:"created_at"`
}

// Export builds the manifest header for the current ledger tip. It does
// not serialize the store file itself — that remains the external
// exporter's responsibility.
func (e *Engine) Export(ctx context.Context, networkUUID uuid.UUID) (Manifest, error) {
	latest, ok, err := e.store.LatestTransaction(ctx)
	if err != nil {
		return Manifest{}, fmt.Errorf("export: %w", err)
	}
	if !ok {
		return Manifest{
			NetworkUUID:         networkUUID,
			Sequence:            -1,
			PrevSequence:        -1,
			ContentHashOfLatest: identity.ZeroHash,
			CreatedAt:           now(),
		}, nil
	}
	return Manifest{
		NetworkUUID:         networkUUID,
		Sequence:            latest.Sequence,
		PrevSequence:        latest.PrevSequence,
		ContentHashOfLatest: latest.ContentHash,
		CreatedAt:           now(),
	}, nil
}
