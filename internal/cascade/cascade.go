// Package cascade implements the canonical cascade: the
// deterministic recomputation of is_canonical flags from a starting
// position forward after any accepted vote transaction.
package cascade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	"github.com/hronir/engine/internal/rating"
	"github.com/hronir/engine/internal/storage"
)

// Run recomputes canonical flags from position from forward. It
// terminates the first time a position has no predecessor (because the
// prior position has no canonical path) or no eligible path of its own,
// clearing is_canonical at and beyond that position.
func Run(ctx context.Context, store storage.Store, from int) error {
	position := from

	for {
		var predecessor uuid.UUID
		if position == 0 {
			predecessor = models.ZeroUUID
		} else {
			prevCanonical, err := store.GetCanonicalAt(ctx, position-1)
			if err != nil {
				if err == storage.ErrNotFound {
					return store.ClearCanonicalFrom(ctx, position)
				}
				return fmt.Errorf("cascade: read canonical at %d: %w", position-1, err)
			}
			predecessor = prevCanonical.Current
		}

		cohort, err := store.ListCohort(ctx, position, predecessor)
		if err != nil {
			return fmt.Errorf("cascade: list cohort at %d: %w", position, err)
		}
		if len(cohort) == 0 {
			return store.ClearCanonicalFrom(ctx, position)
		}

		ranked := rating.Rank(cohort)
		winner := ranked[0]

		if err := store.SetCanonical(ctx, position, winner.PathUUID); err != nil {
			return fmt.Errorf("cascade: set canonical at %d: %w", position, err)
		}

		position++
	}
}
