// Package hashing maps feature descriptors into a fixed-size index space.
//
// High-cardinality symbolic features are hashed into [0, Size) with
// murmur3; collisions are tolerated as a memory/accuracy trade-off
// (feature hashing). Numeric features hash the same way, their value is
// applied at scoring time.
package hashing

import "github.com/spaolacci/murmur3"

// DefaultSize is the default capacity of the index space. Weight arrays
// are allocated once at this size and never resized.
const DefaultSize = 1 << 24

// Space is a fixed-size feature index space. Size must be a power of two.
type Space struct {
	mask uint32
	size int
}

// NewSpace creates an index space of the given capacity. It panics if
// size is not a positive power of two; the capacity is a construction
// parameter, not runtime input.
func NewSpace(size int) Space {
	if size <= 0 || size&(size-1) != 0 {
		panic("hashing: size must be a positive power of two")
	}
	return Space{mask: uint32(size - 1), size: size}
}

// Size returns the capacity of the space.
func (s Space) Size() int {
	return s.size
}

// Index maps a feature descriptor to an index in [0, Size).
func (s Space) Index(feature string) uint32 {
	return murmur3.Sum32([]byte(feature)) & s.mask
}

// Indices maps a list of feature descriptors to indices, preserving
// order. Duplicate descriptors yield duplicate indices; their weight is
// counted once per occurrence.
func (s Space) Indices(features []string) []uint32 {
	if len(features) == 0 {
		return nil
	}
	out := make([]uint32, len(features))
	for i, f := range features {
		out[i] = s.Index(f)
	}
	return out
}
