package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex characters, enough to tell datasets apart in a report
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// FloatHasher accumulates the exact bit patterns of float64 values, so two
// sequences hash equal only when they are bit-identical.
type FloatHasher struct {
	buf []byte
}

// NewFloatHasher creates a hasher sized for n values
func NewFloatHasher(n int) *FloatHasher {
	return &FloatHasher{buf: make([]byte, 0, n*8)}
}

// Add appends values to the hash input
func (f *FloatHasher) Add(values ...float64) {
	var b [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		f.buf = append(f.buf, b[:]...)
	}
}

// Sum returns the hash of everything added so far
func (f *FloatHasher) Sum() Hash {
	return NewHash(f.buf)
}
