// Package tipcache caches an item's current tip records in a bbolt
// database, purely as an optimization: every read is validated against
// a live DagIterator pass before being trusted, so a stale or missing
// cache entry never produces a wrong answer, only a slower one. The
// filesystem stays the system of record.
package tipcache

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/javanhut/sit/internal/item"
	"github.com/javanhut/sit/internal/record"
)

var tipsBucket = []byte("tips")

// DB wraps a bbolt database holding one bucket: item id -> JSON list of
// that item's last-known tip encoded hashes.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (creating if necessary) a tip cache database at path.
func Open(path string) (*DB, error) {
	bolt, err := bbolt.Open(path, 0o666, nil)
	if err != nil {
		return nil, fmt.Errorf("tipcache: open %s: %w", path, err)
	}
	if err := bolt.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(tipsBucket)
		return err
	}); err != nil {
		_ = bolt.Close()
		return nil, fmt.Errorf("tipcache: init buckets: %w", err)
	}
	return &DB{bolt: bolt}, nil
}

// Close closes the underlying database.
func (db *DB) Close() error { return db.bolt.Close() }

// Put records itemID's current tips for later, faster retrieval.
func (db *DB) Put(itemID string, tips []*record.Record) error {
	hashes := make([]string, len(tips))
	for i, r := range tips {
		hashes[i] = r.EncodedHash()
	}
	data, err := json.Marshal(hashes)
	if err != nil {
		return fmt.Errorf("tipcache: encode tips for %s: %w", itemID, err)
	}
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(tipsBucket).Put([]byte(itemID), data)
	})
}

// Invalidate removes any cached tips for itemID, forcing the next
// Tips call to recompute from a live traversal.
func (db *DB) Invalidate(itemID string) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(tipsBucket).Delete([]byte(itemID))
	})
}

// Tips returns the item's current tips by running a full DagIterator
// pass. The cache is never substituted for this computation, only
// refreshed from it so Changed can later answer cheaply. Callers
// that only need to know whether anything changed since the last Put
// should call Changed instead of Tips.
func Tips(db *DB, it *item.Item) ([]*record.Record, error) {
	live, err := computeTips(it)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := db.Put(it.Id(), live); err != nil {
			return nil, err
		}
	}
	return live, nil
}

// Changed reports whether it's tips differ from the last value passed
// to Put for the same item id. An empty cache (no prior Put) always
// reports changed, so callers must treat a cache miss as "recompute",
// never as "nothing changed".
func Changed(db *DB, it *item.Item) (bool, error) {
	live, err := computeTips(it)
	if err != nil {
		return false, err
	}
	cached, ok := db.lookup(it.Id())
	if !ok {
		return true, nil
	}
	return !sameTips(cached, live), nil
}

func (db *DB) lookup(itemID string) ([]string, bool) {
	var hashes []string
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(tipsBucket).Get([]byte(itemID))
		if v == nil {
			return fmt.Errorf("not found")
		}
		return json.Unmarshal(v, &hashes)
	})
	if err != nil {
		return nil, false
	}
	return hashes, true
}

func sameTips(cachedHashes []string, live []*record.Record) bool {
	if len(cachedHashes) != len(live) {
		return false
	}
	liveSet := make(map[string]bool, len(live))
	for _, r := range live {
		liveSet[r.EncodedHash()] = true
	}
	for _, h := range cachedHashes {
		if !liveSet[h] {
			return false
		}
	}
	return true
}

func computeTips(it *item.Item) ([]*record.Record, error) {
	dagIt, err := it.RecordIter()
	if err != nil {
		return nil, err
	}
	generations := dagIt.All()
	if len(generations) == 0 {
		return nil, nil
	}
	return generations[len(generations)-1], nil
}
