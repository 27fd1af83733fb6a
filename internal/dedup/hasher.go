// Package dedup implements content-hash duplicate detection.
package dedup

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"lukechampine.com/blake3"
)

// Algorithm selects the content hash used for duplicate grouping.
type Algorithm int

const (
	// Blake3 is a fast cryptographic hash. Default.
	Blake3 Algorithm = iota
	// XXHash is a very fast non-cryptographic hash. Opt-in when speed
	// matters more than collision resistance.
	XXHash
)

func (a Algorithm) String() string {
	switch a {
	case Blake3:
		return "BLAKE3"
	case XXHash:
		return "xxHash"
	default:
		return "unknown"
	}
}

// ParseAlgorithm maps a config/flag value to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "", "blake3":
		return Blake3, nil
	case "xxhash":
		return XXHash, nil
	default:
		return Blake3, core.InvalidInputf("unknown hash algorithm %q", s)
	}
}

// Hasher computes content fingerprints. Identical bytes always yield
// identical fingerprints for a given algorithm; a single detection run
// must use one algorithm throughout or group membership is meaningless.
type Hasher struct {
	alg Algorithm
}

// NewHasher creates a Hasher for the given algorithm.
func NewHasher(alg Algorithm) *Hasher {
	return &Hasher{alg: alg}
}

// Hash reads the whole file and returns its hex fingerprint.
func (h *Hasher) Hash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	switch h.alg {
	case XXHash:
		return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
	default:
		sum := blake3.Sum256(data)
		return fmt.Sprintf("%x", sum[:]), nil
	}
}
