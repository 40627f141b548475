// Package entropy picks seeds for replayable runs. A run is reproducible from
// its seed alone, so the seed is the only value drawn from crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"
)

// NewSeed returns a positive seed from crypto/rand. Falls back to the wall
// clock if the system source is unavailable.
func NewSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		slog.Debug("crypto/rand unavailable, seeding from clock", "error", err)
		return positive(time.Now().UnixNano())
	}
	// Top bit cleared so the seed is never negative.
	return positive(int64(binary.LittleEndian.Uint64(buf[:]) >> 1))
}

// Resolve returns seed unchanged when it is set, and a fresh seed when it is zero.
func Resolve(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return NewSeed()
}

func positive(n int64) int64 {
	if n < 0 {
		n = -n
	}
	if n <= 0 {
		return 1
	}
	return n
}
