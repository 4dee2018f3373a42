// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "time"

// Cache persists upstream lookups (labels, records) between runs.
// The backing store (bbolt) namespaces values by bucket. Concurrent reads
// are safe; writes are serialized by the adapter.
//
// Entries carry an expiry. An expired entry reads as a miss and is not an error.
type Cache interface {
	// Get returns the value stored under bucket/key.
	// ok is false for missing or expired entries.
	Get(bucket, key string) (value []byte, ok bool, err error)

	// Put stores value under bucket/key for ttl. ttl <= 0 never expires.
	Put(bucket, key string, value []byte, ttl time.Duration) error

	// Wipe removes every bucket. Idempotent.
	Wipe() error
}
