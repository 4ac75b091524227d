package manager

import (
	"sync"
	"time"
)

// State represents the lifecycle state of a managed resource.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	StateError    State = "error"
)

// Builder produces a resource instance, or fails. Implementations do the
// expensive construction work (reading a model off disk, opening a large
// index) and must tolerate being invoked again after a failure.
type Builder interface {
	Build() (any, error)
}

// BuilderFunc adapts a plain function to the Builder interface.
type BuilderFunc func() (any, error)

func (f BuilderFunc) Build() (any, error) { return f() }

// resource is the descriptor for one registered name. name, kind, estCost
// and builder are immutable after registration; everything else is guarded
// by mu. State transitions happen only through the load path, Unload, or
// Optimize.
type resource struct {
	name    string
	kind    string
	estCost int64
	builder Builder

	mu       sync.Mutex
	state    State
	instance any
	loading  chan struct{} // non-nil while a load is in flight; closed on completion
	gone     bool          // set by Deregister; no new load may start
	seq      uint64        // order of the last successful load, for eviction recency
	loadedAt time.Time
	lastDur  time.Duration
	lastErr  error
}
