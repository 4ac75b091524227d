package manager

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var errBoom = errors.New("boom")

// ampleStats reports a host with plenty of free memory, the worked example
// used throughout: 32 GB total, 20 GB available, 5 GB used.
func ampleStats() StaticStats {
	return StaticStats{S: Stats{
		TotalBytes:     32_000_000_000,
		AvailableBytes: 20_000_000_000,
		UsedBytes:      5_000_000_000,
		UsedFraction:   5.0 / 32.0,
	}}
}

// tightStats reports a host with almost nothing free.
func tightStats() StaticStats {
	return StaticStats{S: Stats{
		TotalBytes:     32_000_000_000,
		AvailableBytes: 1_000_000_000,
		UsedBytes:      31_000_000_000,
		UsedFraction:   31.0 / 32.0,
	}}
}

// flipStats is a StatsProvider whose snapshot can be swapped mid-test.
type flipStats struct {
	mu sync.Mutex
	s  Stats
}

func (f *flipStats) CurrentStats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.s
}

func (f *flipStats) set(s Stats) {
	f.mu.Lock()
	f.s = s
	f.mu.Unlock()
}

// countBuilder counts invocations and tracks the concurrent-invocation
// high-water mark. The first failFirst calls fail.
type countBuilder struct {
	calls     atomic.Int32
	cur       atomic.Int32
	hwm       atomic.Int32
	delay     time.Duration
	failFirst int32
}

func (b *countBuilder) Build() (any, error) {
	n := b.cur.Add(1)
	defer b.cur.Add(-1)
	for {
		old := b.hwm.Load()
		if n <= old || b.hwm.CompareAndSwap(old, n) {
			break
		}
	}
	call := b.calls.Add(1)
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if call <= b.failFirst {
		return nil, errors.New("boom")
	}
	return fmt.Sprintf("instance-%d", call), nil
}

// gatedBuilder blocks inside Build until release is closed, signalling each
// entry on started.
type gatedBuilder struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
	err     error
}

func (b *gatedBuilder) Build() (any, error) {
	b.calls.Add(1)
	if b.started != nil {
		b.started <- struct{}{}
	}
	<-b.release
	if b.err != nil {
		return nil, b.err
	}
	return "gated-instance", nil
}

// closeRec records whether Close was called on it.
type closeRec struct {
	closed atomic.Bool
}

func (c *closeRec) Close() error {
	c.closed.Store(true)
	return nil
}

// closeRecBuilder returns a fresh closeRec per build and remembers them all.
type closeRecBuilder struct {
	mu    sync.Mutex
	built []*closeRec
}

func (b *closeRecBuilder) Build() (any, error) {
	c := &closeRec{}
	b.mu.Lock()
	b.built = append(b.built, c)
	b.mu.Unlock()
	return c, nil
}

func (b *closeRecBuilder) instances() []*closeRec {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*closeRec, len(b.built))
	copy(out, b.built)
	return out
}
