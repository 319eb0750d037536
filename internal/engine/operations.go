package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/identity"
	"github.com/hronir/engine/internal/mandate"
	"github.com/hronir/engine/internal/models"
	"github.com/hronir/engine/internal/rating"
	"github.com/hronir/engine/internal/storage"
)

// StoreHronir persists a text artifact, deriving its content-addressed
// identity. Re-storing identical normalized text is a no-op that returns
// the existing identifier with created=false.
func (e *Engine) StoreHronir(ctx context.Context, text string) (uuid.UUID, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkWritable(); err != nil {
		return uuid.UUID{}, false, err
	}

	h := &models.Hronir{
		ID:        identity.HronirID(text),
		Text:      identity.NormalizeText(text),
		CreatedAt: now(),
	}
	created, err := e.store.SaveHronir(ctx, h)
	if err != nil {
		return uuid.UUID{}, false, fmt.Errorf("store hrönir: %w", err)
	}
	return h.ID, created, nil
}

// RegisterPath registers a narrative edge, enforcing the graph invariants
// before persisting it. Re-registering an identical edge is a no-op
// returning the existing path_uuid.
func (e *Engine) RegisterPath(ctx context.Context, position int, predecessor, current uuid.UUID) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkWritable(); err != nil {
		return uuid.UUID{}, err
	}

	currentExists, err := e.store.HronirExists(ctx, current)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("register path: %w", err)
	}
	predecessorExists := predecessor == models.ZeroUUID
	if !predecessorExists {
		predecessorExists, err = e.store.HronirExists(ctx, predecessor)
		if err != nil {
			return uuid.UUID{}, fmt.Errorf("register path: %w", err)
		}
	}

	pathUUID := identity.PathID(position, predecessor, current)
	existing, err := e.store.FindPath(ctx, position, predecessor, current)
	if err == nil {
		return existing.PathUUID, nil
	}
	if err != storage.ErrNotFound {
		return uuid.UUID{}, fmt.Errorf("register path: %w", err)
	}

	if err := e.graph.Validate(position, predecessor, current, currentExists, predecessorExists); err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %w", ErrInvalidEdge, err)
	}

	p := &models.Path{
		PathUUID:    pathUUID,
		Position:    position,
		Predecessor: predecessor,
		Current:     current,
		Status:      models.StatusPending,
		IsCanonical: false,
		EloRating:   rating.InitialElo,
		CreatedAt:   now(),
	}
	if _, err := e.store.SavePath(ctx, p); err != nil {
		return uuid.UUID{}, fmt.Errorf("register path: %w", err)
	}

	e.graph.Add(position, predecessor, current)
	e.mirror.MirrorEdge(ctx, position, predecessor, current)
	if e.cache != nil {
		e.cache.Invalidate(position, predecessor)
	}

	return pathUUID, nil
}

// GetRanking returns a cohort's paths sorted by Elo descending.
func (e *Engine) GetRanking(ctx context.Context, position int, predecessor uuid.UUID) ([]models.RankedPath, error) {
	cohort, err := e.store.ListCohort(ctx, position, predecessor)
	if err != nil {
		return nil, fmt.Errorf("get ranking: %w", err)
	}
	ranked := rating.Rank(cohort)
	out := make([]models.RankedPath, len(ranked))
	for i, p := range ranked {
		out[i] = models.RankedPath{PathUUID: p.PathUUID, Elo: p.EloRating, Status: p.Status}
	}
	return out, nil
}

// GetDuel returns the active maximum-entropy duel at a position against
// the current canonical predecessor, or ok=false if fewer than two
// eligible paths exist.
func (e *Engine) GetDuel(ctx context.Context, position int) (models.Duel, bool, error) {
	predecessor, err := e.canonicalPredecessorAt(ctx, position)
	if err != nil {
		return models.Duel{}, false, err
	}
	return e.resolveDuel(ctx, position, predecessor)
}

// resolveDuel consults the advisory cache before recomputing from
// get_ranking.
func (e *Engine) resolveDuel(ctx context.Context, position int, predecessor uuid.UUID) (models.Duel, bool, error) {
	if e.cache != nil {
		if duel, found := e.cache.Get(position, predecessor); found {
			return duel, true, nil
		}
	}

	cohort, err := e.store.ListCohort(ctx, position, predecessor)
	if err != nil {
		return models.Duel{}, false, fmt.Errorf("get duel: %w", err)
	}
	duel, ok := rating.SelectDuel(position, predecessor, cohort)
	if !ok {
		return models.Duel{}, false, nil
	}
	if e.cache != nil {
		e.cache.Set(duel)
	}
	return duel, true, nil
}

// canonicalPredecessorAt resolves the canonical predecessor hrönir for a
// target position, delegating the ZeroUUID/prior-canonical rule to
// mandate.CanonicalPredecessor so this engine-side lookup and the
// package's own decision logic can never diverge. A missing canonical
// path at position-1 is passed through as nil: no path can legitimately
// register at position>0 with predecessor=ZeroUUID, so the resulting
// cohort is always empty and GetDuel correctly reports ok=false.
func (e *Engine) canonicalPredecessorAt(ctx context.Context, position int) (uuid.UUID, error) {
	if position == 0 {
		return mandate.CanonicalPredecessor(position, nil), nil
	}
	prev, err := e.store.GetCanonicalAt(ctx, position-1)
	if err != nil {
		if err == storage.ErrNotFound {
			return mandate.CanonicalPredecessor(position, nil), nil
		}
		return uuid.UUID{}, fmt.Errorf("resolve canonical predecessor: %w", err)
	}
	return mandate.CanonicalPredecessor(position, prev), nil
}

// PathStatus reports a path's current lifecycle state.
func (e *Engine) PathStatus(ctx context.Context, pathUUID uuid.UUID) (models.PathStatusView, error) {
	p, err := e.store.GetPath(ctx, pathUUID)
	if err != nil {
		if err == storage.ErrNotFound {
			return models.PathStatusView{}, fmt.Errorf("%w: path status", ErrNotFound)
		}
		return models.PathStatusView{}, fmt.Errorf("path status: %w", err)
	}
	return models.PathStatusView{
		Status:      p.Status,
		Position:    p.Position,
		Elo:         p.EloRating,
		MandateID:   p.MandateID,
		IsCanonical: p.IsCanonical,
	}, nil
}

// GetCanonicalPath returns the full canonical chain from position 0.
func (e *Engine) GetCanonicalPath(ctx context.Context) ([]models.CanonicalEntry, error) {
	maxPos, ok, err := e.store.MaxPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("get canonical path: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var entries []models.CanonicalEntry
	for pos := 0; pos <= maxPos; pos++ {
		p, err := e.store.GetCanonicalAt(ctx, pos)
		if err != nil {
			if err == storage.ErrNotFound {
				break
			}
			return nil, fmt.Errorf("get canonical path: %w", err)
		}
		entries = append(entries, models.CanonicalEntry{
			Position: pos,
			PathUUID: p.PathUUID,
			HronirID: p.Current,
		})
	}
	return entries, nil
}

func now() time.Time { return time.Now().UTC() }
