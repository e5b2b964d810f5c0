package game

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// lockedRand serialises access to a PCG generator so a single source can
// be shared by every round in the process.
type lockedRand struct {
	mu  sync.Mutex
	src *mrand.Rand
}

// NewRand returns a Rand seeded once from seed. A zero seed draws the
// seed from crypto/rand.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = randomSeed()
	}
	return &lockedRand{src: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}

func randomSeed() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:]) | 1
}
