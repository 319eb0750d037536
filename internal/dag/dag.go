// Package dag enforces the acyclicity, lineage and referential-integrity
// rules of the narrative graph. It holds an in-memory adjacency
// index built from the paths table and is the sole source of truth for
// ErrInvalidEdge: an optional Neo4j mirror (mirror.go) may additionally
// reflect accepted edges for external analytical queries, but it is never
// consulted for correctness.
package dag

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
)

// ErrInvalidEdge is returned with a wrapped subcause for every rejected
// edge.
var ErrInvalidEdge = errors.New("invalid edge")

// Subcauses wrapped into ErrInvalidEdge.
var (
	ErrCurrentNotFound     = errors.New("current hrönir does not exist")
	ErrPredecessorRequired = errors.New("non-zero position requires a predecessor")
	ErrPredecessorMismatch = errors.New("position zero requires the empty predecessor")
	ErrPredecessorNotFound = errors.New("predecessor hrönir does not exist")
	ErrEdgeExists          = errors.New("edge already registered")
	ErrCycle               = errors.New("edge would introduce a cycle")
)

// Index is the in-process adjacency index over accepted path edges. Nodes
// are hrönir identifiers; an edge predecessor->current is added for every
// accepted path, labeled with the path's position.
type Index struct {
	// forward[predecessor] holds every hrönir reachable in one hop from
	// predecessor.
	forward map[uuid.UUID]map[uuid.UUID]bool
	// edges tracks the (position, predecessor, current) triples already
	// registered, for the "no duplicate edge" rule.
	edges map[edgeKey]bool
}

type edgeKey struct {
	position    int
	predecessor uuid.UUID
	current     uuid.UUID
}

// New returns an empty index.
func New() *Index {
	return &Index{
		forward: make(map[uuid.UUID]map[uuid.UUID]bool),
		edges:   make(map[edgeKey]bool),
	}
}

// Load rebuilds the index from every path already accepted by the store,
// rehydrating the in-process projection from the relational source of
// truth on startup.
func Load(paths []*models.Path) *Index {
	idx := New()
	for _, p := range paths {
		idx.add(p.Position, p.Predecessor, p.Current)
	}
	return idx
}

func (idx *Index) add(position int, predecessor, current uuid.UUID) {
	key := edgeKey{position, predecessor, current}
	idx.edges[key] = true
	if idx.forward[predecessor] == nil {
		idx.forward[predecessor] = make(map[uuid.UUID]bool)
	}
	idx.forward[predecessor][current] = true
}

// reaches reports whether target is reachable from start via any number of
// forward edges (a breadth-first search over the adjacency index).
func (idx *Index) reaches(start, target uuid.UUID) bool {
	if start == target {
		return true
	}
	visited := map[uuid.UUID]bool{start: true}
	queue := []uuid.UUID{start}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for next := range idx.forward[node] {
			if next == target {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// Validate runs the four checks against a candidate edge: current must
// exist, a non-zero position must name an existing predecessor (and
// position zero must not), the edge must not already be registered, and
// adding it must not introduce a cycle. currentExists and
// predecessorExists come from the object store; the duplicate-edge and
// cycle checks are answered by the index itself.
func (idx *Index) Validate(position int, predecessor, current uuid.UUID, currentExists, predecessorExists bool) error {
	if !currentExists {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, ErrCurrentNotFound)
	}
	if position == 0 {
		if predecessor != models.ZeroUUID {
			return fmt.Errorf("%w: %w", ErrInvalidEdge, ErrPredecessorMismatch)
		}
	} else {
		if predecessor == models.ZeroUUID {
			return fmt.Errorf("%w: %w", ErrInvalidEdge, ErrPredecessorRequired)
		}
		if !predecessorExists {
			return fmt.Errorf("%w: %w", ErrInvalidEdge, ErrPredecessorNotFound)
		}
	}

	key := edgeKey{position, predecessor, current}
	if idx.edges[key] {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, ErrEdgeExists)
	}

	// Adding predecessor->current must not let current reach back to
	// predecessor through any existing path of edges.
	if predecessor != models.ZeroUUID && idx.reaches(current, predecessor) {
		return fmt.Errorf("%w: %w", ErrInvalidEdge, ErrCycle)
	}

	return nil
}

// Add records an edge already accepted by the store. Callers must call
// Validate first within the same critical section; Add itself performs no
// validation.
func (idx *Index) Add(position int, predecessor, current uuid.UUID) {
	idx.add(position, predecessor, current)
}
