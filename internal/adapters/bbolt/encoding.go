// Binary envelope for cached values.
//
// Format v1 (little-endian):
//
//	version:   uint8  (1)
//	expiresAt: int64  (unix nanoseconds, 0 = never)
//	value:     remaining bytes
package bbolt

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	envelopeVersion = 1
	headerSize      = 1 + 8
)

// encodeEntry wraps value with its expiry. A zero ttl never expires.
func encodeEntry(value []byte, now time.Time, ttl time.Duration) []byte {
	var expires int64
	if ttl > 0 {
		expires = now.Add(ttl).UnixNano()
	}
	buf := make([]byte, headerSize+len(value))
	buf[0] = envelopeVersion
	binary.LittleEndian.PutUint64(buf[1:headerSize], uint64(expires))
	copy(buf[headerSize:], value)
	return buf
}

// decodeEntry unwraps an envelope. The returned value aliases data.
func decodeEntry(data []byte) (value []byte, expires int64, err error) {
	if len(data) < headerSize {
		return nil, 0, fmt.Errorf("cache entry too short: %d bytes", len(data))
	}
	if data[0] != envelopeVersion {
		return nil, 0, fmt.Errorf("cache entry version %d not supported", data[0])
	}
	expires = int64(binary.LittleEndian.Uint64(data[1:headerSize]))
	return data[headerSize:], expires, nil
}

// expired reports whether an entry with the given expiry is stale at now.
func expired(expires int64, now time.Time) bool {
	return expires != 0 && now.UnixNano() >= expires
}
