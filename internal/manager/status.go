package manager

import (
	"context"
	"sort"
	"time"

	"resourced/pkg/types"
)

// Status reports the current lifecycle state and diagnostics for one name.
func (m *Manager) Status(name string) (types.ResourceStatus, error) {
	res := m.lookup(name)
	if res == nil {
		return types.ResourceStatus{}, ErrNotRegistered(name)
	}
	return m.statusOf(res), nil
}

// StatusAll builds the bulk status response: every resource plus a live
// stats snapshot and the controller's advisory budget.
func (m *Manager) StatusAll() types.StatusResponse {
	m.mu.RLock()
	all := make([]*resource, 0, len(m.resources))
	for _, res := range m.resources {
		all = append(all, res)
	}
	m.mu.RUnlock()

	st := m.stats.CurrentStats()
	resp := types.StatusResponse{
		Resources:    make([]types.ResourceStatus, 0, len(all)),
		UsedEstBytes: m.usedEst.Load(),
		Memory: types.MemoryStats{
			TotalBytes:           st.TotalBytes,
			AvailableBytes:       st.AvailableBytes,
			UsedBytes:            st.UsedBytes,
			UsedFraction:         st.UsedFraction,
			AcceleratorAvailable: st.AcceleratorAvailable,
		},
		RecommendedBudgetBytes: m.admission.RecommendedBudget(st),
		LoadsTotal:             m.loadsTotal.Load(),
		EvictionsTotal:         m.evictionsTotal.Load(),
		UptimeSeconds:          int64(time.Since(m.startTime).Seconds()),
	}
	for _, res := range all {
		resp.Resources = append(resp.Resources, m.statusOf(res))
	}
	sort.Slice(resp.Resources, func(i, j int) bool {
		return resp.Resources[i].Name < resp.Resources[j].Name
	})
	return resp
}

func (m *Manager) statusOf(res *resource) types.ResourceStatus {
	res.mu.Lock()
	defer res.mu.Unlock()
	s := types.ResourceStatus{
		Name:         res.name,
		Kind:         res.kind,
		State:        string(res.state),
		EstCostBytes: res.estCost,
		LastLoadMs:   res.lastDur.Milliseconds(),
	}
	if !res.loadedAt.IsZero() {
		s.LoadedAtUnix = res.loadedAt.Unix()
	}
	if res.lastErr != nil {
		s.LastError = res.lastErr.Error()
	}
	return s
}

// Load drives a get-or-load for name and reports the resulting status. HTTP
// callers never see the instance itself; it stays owned by the registry.
func (m *Manager) Load(ctx context.Context, name string, force bool) (types.ResourceStatus, error) {
	_, err := m.get(ctx, name, force)
	if err != nil {
		return types.ResourceStatus{}, err
	}
	return m.Status(name)
}
