// Package engine is the protocol orchestrator: it wires
// identity, storage, graph invariants, rating, mandate and ledger/cascade
// into the programmatic surface external collaborators (the CLI, AI
// generators, snapshot tools) call. It serializes every mutating
// operation through a single logical writer.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/hronir/engine/internal/config"
	"github.com/hronir/engine/internal/dag"
	"github.com/hronir/engine/internal/rating"
	"github.com/hronir/engine/internal/storage"
	"github.com/sirupsen/logrus"
)

// Engine is the single entry point for all protocol operations.
// Construct one per process against a single storage.Store; do not share
// a store between two Engines.
type Engine struct {
	mu sync.Mutex

	store  storage.Store
	graph  *dag.Index
	mirror *dag.Mirror
	cache  *rating.DuelCache
	cfg    *config.Config
	logger *logrus.Logger

	// readOnly is set once Audit finds a ledger or consumed-token
	// integrity violation; every mutating method refuses further work until the
	// store is repaired and a new Engine is constructed.
	readOnly bool
}

// New constructs an Engine. It loads every existing path into the
// in-process graph index and opens the advisory duel cache;
// a missing or unreachable Neo4j mirror is not fatal.
func New(ctx context.Context, store storage.Store, cfg *config.Config, logger *logrus.Logger) (*Engine, error) {
	paths, err := store.ListAllPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("load path graph: %w", err)
	}

	cache, err := rating.OpenDuelCache(cfg.Storage.DuelCachePath)
	if err != nil {
		logger.WithError(err).Warn("duel cache unavailable, falling back to uncached duel selection")
		cache = nil
	}

	e := &Engine{
		store:  store,
		graph:  dag.Load(paths),
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}

	if cfg.Graph.Neo4jURI != "" {
		mirror, err := dag.NewMirror(ctx, cfg.Graph.Neo4jURI, cfg.Graph.Neo4jUser, cfg.Graph.Neo4jPassword, cfg.Graph.Neo4jDatabase, logger)
		if err != nil {
			logger.WithError(err).Warn("graph mirror unavailable, continuing without it")
		} else {
			e.mirror = mirror
		}
	}

	return e, nil
}

// Close releases the engine's advisory cache and optional graph mirror.
// It does not close the underlying store; callers own that lifecycle.
func (e *Engine) Close(ctx context.Context) error {
	var errs []error
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.mirror != nil {
		if err := e.mirror.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("engine close: %v", errs)
	}
	return nil
}

// checkWritable returns ErrIntegrity if a prior fatal integrity failure
// has flipped the engine read-only.
func (e *Engine) checkWritable() error {
	if e.readOnly {
		return ErrIntegrity
	}
	return nil
}
