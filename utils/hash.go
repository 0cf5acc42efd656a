package utils

import "github.com/benbjohnson/immutable"

type (
	// Hashable is implemented by all hashable types.
	Hashable interface {
		Hash() uint32
	}

	// Hasher is the hashing strategy consumed by the hashed containers.
	Hasher[T any] = immutable.Hasher[T]
)

// HashCombine uses the C++ boost algorithm for combining multiple hash values.
func HashCombine(hs ...uint32) (seed uint32) {
	for _, v := range hs {
		seed = v + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}

	return
}

// HashString computes the 32-bit FNV-1a hash of a string.
func HashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
