// Package bbolt implements ports.Cache using bbolt (embedded B+ tree).
// Each cache namespace is a top-level bucket ("labels", "records"); values
// carry their own expiry in a small binary envelope. Writes are
// transactional, so a crash mid-write cannot corrupt committed entries.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
const (
	BucketLabels  = "labels"
	BucketRecords = "records"
)

// Store implements ports.Cache backed by bbolt.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// IsLocked reports whether err is NewStore giving up on a file lock
// held by another process.
func IsLocked(err error) bool {
	return errors.Is(err, bolt.ErrTimeout)
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Get returns the value stored under key. Expired and missing entries
// report ok=false; expired entries are left for Purge.
func (s *Store) Get(bucket, key string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		raw := b.Get([]byte(key))
		if raw == nil {
			return nil
		}
		value, expires, err := decodeEntry(raw)
		if err != nil {
			return fmt.Errorf("%s/%s: %w", bucket, key, err)
		}
		if expired(expires, s.now()) {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		out = make([]byte, len(value))
		copy(out, value)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

// Put stores value under key for ttl. A zero ttl never expires.
func (s *Store) Put(bucket, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("bbolt put: empty key")
	}
	entry := encodeEntry(value, s.now(), ttl)
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), entry)
	})
}

// Purge deletes every expired or unreadable entry and returns how many
// were removed.
func (s *Store) Purge() (int, error) {
	now := s.now()
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			var stale [][]byte
			err := b.ForEach(func(k, v []byte) error {
				_, expires, err := decodeEntry(v)
				if err != nil || expired(expires, now) {
					stale = append(stale, append([]byte(nil), k...))
				}
				return nil
			})
			if err != nil {
				return err
			}
			// Deleting inside ForEach invalidates the cursor.
			for _, k := range stale {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
			removed += len(stale)
			return nil
		})
	})
	return removed, err
}

// Count returns the number of entries in bucket, expired ones included.
func (s *Store) Count(bucket string) (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(bucket)); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// Wipe removes every bucket. Idempotent.
func (s *Store) Wipe() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var names [][]byte
		if err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, append([]byte(nil), name...))
			return nil
		}); err != nil {
			return err
		}
		for _, name := range names {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		return nil
	})
}
