package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/cascade"
	"github.com/hronir/engine/internal/ledger"
	"github.com/hronir/engine/internal/models"
)

// RecoverCanon re-runs cascade(0) against the whole store
// It is idempotent: running it with no intervening writes reproduces the
// same canonical flags.
func (e *Engine) RecoverCanon(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkWritable(); err != nil {
		return err
	}
	if err := cascade.Run(ctx, e.store, 0); err != nil {
		return fmt.Errorf("recover canon: %w", err)
	}
	return nil
}

// Audit runs the integrity checks: ledger sequence and
// hash-chain continuity, and the consumed-tokens invariant. A broken
// chain is reported and flips the engine read-only, treating it as a
// fatal, irrecoverable-without-intervention storage error.
func (e *Engine) Audit(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var issues []string

	txs, err := e.store.AllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	if err := ledger.VerifyChain(txs); err != nil {
		issues = append(issues, err.Error())
		e.readOnly = true
	}

	paths, err := e.store.ListAllPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	pathByUUID := make(map[uuid.UUID]*models.Path, len(paths))
	for _, p := range paths {
		pathByUUID[p.PathUUID] = p
	}
	if err := ledger.VerifyConsumedTokens(txs, pathByUUID); err != nil {
		issues = append(issues, err.Error())
		e.readOnly = true
	}

	return issues, nil
}
