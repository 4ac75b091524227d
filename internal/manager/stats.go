package manager

// Stats is a point-in-time snapshot of host memory availability.
type Stats struct {
	TotalBytes           uint64
	AvailableBytes       uint64
	UsedBytes            uint64
	UsedFraction         float64
	AcceleratorAvailable bool
}

// StatsProvider reports current host memory availability. Implementations
// must be cheap (it is called on every admission check) and must not fail:
// when the underlying OS query errors, return a zero-availability snapshot
// so admission fails closed instead of crashing the caller.
type StatsProvider interface {
	CurrentStats() Stats
}

// StaticStats is a StatsProvider returning a fixed snapshot. Intended for
// tests and for callers that sample host memory themselves.
type StaticStats struct{ S Stats }

func (p StaticStats) CurrentStats() Stats { return p.S }

// zeroStats is the fallback when no provider is configured. It reports no
// available memory, so every load is denied until a real provider is wired.
type zeroStats struct{}

func (zeroStats) CurrentStats() Stats { return Stats{} }
