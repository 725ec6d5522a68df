package brackets

import (
	"math/rand"
	"sync"
)

// Shuffler is the randomness the pairing generators need. A *rand.Rand
// satisfies it but is not safe for concurrent use; wrap a shared source in
// a LockedRand when the generators serve more than one goroutine.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// LockedRand serializes access to one rand.Rand so that independent
// sessions can generate pairings concurrently.
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewLockedRand(rng *rand.Rand) *LockedRand {
	return &LockedRand{rng: rng}
}

func (r *LockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(n, swap)
}
