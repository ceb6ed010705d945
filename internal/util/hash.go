package util

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

func HashString(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func ShortHash(value string) string {
	full := HashString(value)
	if len(full) < 8 {
		return full
	}
	return full[:8]
}

// DeriveSeed folds a basis string into a 64-bit seed: the first 8 bytes
// of its SHA-256 digest. The same basis always yields the same seed, on
// any platform, across runs.
func DeriveSeed(basis string) int64 {
	sum := sha256.Sum256([]byte(basis))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
