// Package bbolt implements the ports.RunStore interface using bbolt (embedded B+ tree).
// Runs live in a single "runs" bucket keyed by the big-endian run ID, so cursor
// order is insertion order. Values are JSON. Writes are transactional; a crash
// mid-write cannot corrupt previously committed runs.
package bbolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/corey/occur/internal/ports"
	bolt "go.etcd.io/bbolt"
)

var bucketRuns = []byte("runs")

// Store implements ports.RunStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// runKey encodes a run ID so byte order matches numeric order.
func runKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// SaveRun assigns the next sequence number to run.ID and persists it.
func (s *Store) SaveRun(run *ports.Run) error {
	if run == nil {
		return fmt.Errorf("nil run")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketRuns)
		if err != nil {
			return err
		}
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		run.ID = id
		data, err := json.Marshal(run)
		if err != nil {
			return fmt.Errorf("marshal run: %w", err)
		}
		return b.Put(runKey(id), data)
	})
}

// GetRun retrieves one run. Returns nil, nil if it does not exist.
func (s *Store) GetRun(id uint64) (*ports.Run, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(runKey(id)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var run ports.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run %d: %w", id, err)
	}
	return &run, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) ListRuns(limit int) ([]*ports.Run, error) {
	var runs []*ports.Run
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			var run ports.Run
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("unmarshal run %d: %w", binary.BigEndian.Uint64(k), err)
			}
			runs = append(runs, &run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// Clear removes every run. Idempotent: clearing an empty store is not an error.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketRuns); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		return nil
	})
}
