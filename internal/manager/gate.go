package manager

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// loadGate bounds how many builders may run simultaneously across all
// resource names. Admission control evaluates one resource at a time against
// possibly stale stats; the gate keeps many individually-admitted large
// loads from landing at once.
type loadGate struct {
	sem *semaphore.Weighted
}

func newLoadGate(capacity int) *loadGate {
	if capacity <= 0 {
		capacity = defaultMaxParallelLoads
	}
	return &loadGate{sem: semaphore.NewWeighted(int64(capacity))}
}

// acquire blocks until a slot is free or ctx is done.
func (g *loadGate) acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// release must run on every exit path of a load attempt, including builder
// panics; a leaked slot permanently shrinks system throughput.
func (g *loadGate) release() {
	g.sem.Release(1)
}
