package manager

import (
	"errors"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Manager owns the resource registry and coordinates loads, unloads and
// eviction. Construct with New or NewWithConfig; the zero value is not
// usable. All methods are safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	resources map[string]*resource

	gate      *loadGate
	stats     StatsProvider
	admission *AdmissionController
	publisher EventPublisher
	log       zerolog.Logger
	startTime time.Time

	usedEst        atomic.Int64
	seqCounter     atomic.Uint64
	loadsTotal     atomic.Uint64
	evictionsTotal atomic.Uint64
}

// New constructs a Manager with defaults and the given stats provider.
func New(stats StatsProvider) *Manager {
	return NewWithConfig(ManagerConfig{Stats: stats})
}

// Register adds a descriptor for name. A duplicate name is rejected: a live
// descriptor is never silently overwritten.
func (m *Manager) Register(name, kind string, estCostBytes int64, b Builder) error {
	if name == "" {
		return errors.New("resource name is required")
	}
	if b == nil {
		return errors.New("builder is required")
	}
	if estCostBytes < 0 {
		return errors.New("estimated cost must not be negative")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[name]; ok {
		return ErrAlreadyRegistered(name)
	}
	m.resources[name] = &resource{
		name:    name,
		kind:    kind,
		estCost: estCostBytes,
		builder: b,
		state:   StateUnloaded,
	}
	m.log.Debug().Str("resource", name).Str("kind", kind).Int64("est_cost_bytes", estCostBytes).Msg("registered")
	return nil
}

// Deregister removes a descriptor entirely, waiting out any in-flight load
// and releasing a loaded instance first. Unlike eviction, the name is gone
// afterwards and must be registered again before use.
func (m *Manager) Deregister(name string) error {
	m.mu.RLock()
	res := m.resources[name]
	m.mu.RUnlock()
	if res == nil {
		return ErrNotRegistered(name)
	}
	var inst any
	for {
		res.mu.Lock()
		if res.state == StateLoading {
			done := res.loading
			res.mu.Unlock()
			<-done
			continue
		}
		res.gone = true
		inst = res.instance
		wasLoaded := res.state == StateLoaded
		res.instance = nil
		res.state = StateUnloaded
		res.mu.Unlock()
		if wasLoaded {
			m.addUsed(-res.estCost)
		}
		break
	}
	m.mu.Lock()
	delete(m.resources, name)
	m.mu.Unlock()
	closeInstance(inst)
	m.log.Debug().Str("resource", name).Msg("deregistered")
	return nil
}

// List returns the registered resource names, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.resources))
	for name := range m.resources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// UsedEstBytes is the sum of estimated cost across loaded resources.
func (m *Manager) UsedEstBytes() int64 { return m.usedEst.Load() }

// CurrentStats samples the configured stats provider.
func (m *Manager) CurrentStats() Stats { return m.stats.CurrentStats() }

// RecommendedBudget is the controller's advisory sizing against live stats.
func (m *Manager) RecommendedBudget() int64 {
	return m.admission.RecommendedBudget(m.stats.CurrentStats())
}

func (m *Manager) lookup(name string) *resource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resources[name]
}

func (m *Manager) addUsed(delta int64) {
	v := m.usedEst.Add(delta)
	residentEstBytes.Set(float64(v))
}

// closeInstance releases an instance that owns external resources.
func closeInstance(inst any) {
	if c, ok := inst.(io.Closer); ok {
		_ = c.Close()
	}
}
