package dag

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"
)

// Mirror is the optional, best-effort Neo4j projection of the narrative
// graph. It exists so external tooling can run analytical traversal
// queries ("all hrönirs reachable from X"); the in-process Index remains
// the sole source of truth for ErrInvalidEdge.
type Mirror struct {
	driver   neo4j.DriverWithContext
	logger   *logrus.Logger
	database string
}

// NewMirror connects to Neo4j and verifies connectivity, failing fast at
// startup rather than on the first write.
func NewMirror(ctx context.Context, uri, user, password, database string, logger *logrus.Logger) (*Mirror, error) {
	if uri == "" {
		return nil, fmt.Errorf("neo4j uri not configured")
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("connect to neo4j at %s: %w", uri, err)
	}
	if database == "" {
		database = "neo4j"
	}
	return &Mirror{driver: driver, logger: logger, database: database}, nil
}

// Close releases the driver's connection pool.
func (m *Mirror) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}

// MirrorEdge writes the accepted edge as a (:Hronir)-[:PRECEDES]->(:Hronir)
// relationship. Failures are logged and swallowed: the mirror is
// advisory, and a write here must never roll back the already-accepted
// edge in the authoritative store.
func (m *Mirror) MirrorEdge(ctx context.Context, position int, predecessor, current uuid.UUID) {
	if m == nil {
		return
	}
	query := `
		MERGE (c:Hronir {id: $current})
		MERGE (p:Hronir {id: $predecessor})
		MERGE (p)-[r:PRECEDES {position: $position}]->(c)
	`
	params := map[string]any{
		"current":     current.String(),
		"predecessor": predecessor.String(),
		"position":    position,
	}
	_, err := neo4j.ExecuteQuery(ctx, m.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(m.database))
	if err != nil {
		m.logger.WithError(err).WithFields(logrus.Fields{
			"position":    position,
			"predecessor": predecessor,
			"current":     current,
		}).Warn("graph mirror write failed, continuing without it")
	}
}
