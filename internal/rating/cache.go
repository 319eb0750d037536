package rating

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hronir/engine/internal/models"
	bolt "go.etcd.io/bbolt"
)

var duelBucket = []byte("active_duels")

// DuelCache is the advisory, bbolt-backed cache of the active duel per
// (position, predecessor) cohort. A cache miss or any bbolt error always
// falls back to recomputing the duel from get_ranking, so a cache failure
// can only ever produce a stale entry that Invalidate removes — never an
// incorrect answer.
type DuelCache struct {
	db *bolt.DB
}

// OpenDuelCache opens (creating if necessary) a bbolt file at path.
func OpenDuelCache(path string) (*DuelCache, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open duel cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(duelBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init duel cache bucket: %w", err)
	}
	return &DuelCache{db: db}, nil
}

func cacheKey(position int, predecessor uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%d:%s", position, predecessor))
}

// Get returns the cached duel for a cohort, if present. A bbolt error is
// treated identically to a miss: callers recompute from get_ranking.
func (c *DuelCache) Get(position int, predecessor uuid.UUID) (models.Duel, bool) {
	if c == nil {
		return models.Duel{}, false
	}
	var duel models.Duel
	found := false
	_ = c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(duelBucket)
		if b == nil {
			return nil
		}
		raw := b.Get(cacheKey(position, predecessor))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &duel); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return duel, found
}

// Set stores the active duel for a cohort. Failures are ignored: the
// cache is advisory.
func (c *DuelCache) Set(duel models.Duel) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(duel)
	if err != nil {
		return
	}
	_ = c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(duelBucket)
		if b == nil {
			return nil
		}
		return b.Put(cacheKey(duel.Position, duel.Predecessor), raw)
	})
}

// Invalidate removes the cached duel for a cohort. Called whenever an Elo
// in the cohort changes.
func (c *DuelCache) Invalidate(position int, predecessor uuid.UUID) {
	if c == nil {
		return
	}
	_ = c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(duelBucket)
		if b == nil {
			return nil
		}
		return b.Delete(cacheKey(position, predecessor))
	})
}

// Close releases the underlying bbolt file handle.
func (c *DuelCache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}
