package manager

import (
	"time"

	"github.com/rs/zerolog"
)

// Default applied when ManagerConfig.MaxParallelLoads is unset.
const defaultMaxParallelLoads = 2

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Stats supplies host memory snapshots for admission checks. When nil,
	// a zero-availability provider is used and every load is denied.
	Stats StatsProvider
	// Admission overrides the default controller (1.2x headroom, 0.85
	// usage threshold, balanced budget strategy).
	Admission *AdmissionController
	// MaxParallelLoads bounds simultaneous builder invocations across all
	// resources. Zero or negative selects the default of 2.
	MaxParallelLoads int
	// Publisher receives lifecycle events. Nil drops them.
	Publisher EventPublisher
	// Logger is used for structured load/unload logging. The zero value
	// logs nowhere.
	Logger zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		resources: make(map[string]*resource),
		gate:      newLoadGate(cfg.MaxParallelLoads),
		stats:     cfg.Stats,
		admission: cfg.Admission,
		publisher: cfg.Publisher,
		log:       cfg.Logger,
	}
	if m.stats == nil {
		m.stats = zeroStats{}
	}
	if m.admission == nil {
		m.admission = NewAdmissionController(StrategyBalanced)
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	m.startTime = time.Now()
	return m
}
