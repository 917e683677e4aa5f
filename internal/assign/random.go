package assign

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// RandomSource is the randomness capability the generator draws from.
// *math/rand.Rand satisfies it, so tests can pass a seeded generator.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewSecureSource returns a RandomSource whose bits come straight from
// crypto/rand, so a rerun of organize never reproduces an earlier loop.
func NewSecureSource() RandomSource {
	return rand.New(cryptoSource{})
}

// cryptoSource adapts crypto/rand to math/rand.Source64.
type cryptoSource struct{}

func (cryptoSource) Seed(int64) {}

func (s cryptoSource) Int63() int64 {
	return int64(s.Uint64() & (1<<63 - 1))
}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand.Read only fails when the OS entropy source is broken.
		panic("read random bits: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}
