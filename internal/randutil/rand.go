package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that a session replayed from its recorded seed deals the same shoe.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewSeed draws a fresh seed from the OS entropy source. Sessions created
// without a caller-supplied seed record this value so replays stay possible.
func NewSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		panic("failed to read random seed: " + err.Error())
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
