package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// NewSeed draws a 64-bit seed from the OS entropy source, falling back to
// the wall clock if the source is unavailable.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// NewRand returns a math/rand generator seeded from NewSeed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(NewSeed()))
}
