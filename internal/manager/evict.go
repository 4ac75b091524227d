package manager

// Optimize applies the recency eviction policy: when more than one resource
// is loaded, every loaded resource except the most recently loaded one is
// returned to unloaded. It reports how many were unloaded.
//
// The policy is deliberately crude: it only distinguishes "last one loaded"
// from "everything else". Callers (typically a periodic pressure monitor)
// decide when to invoke it.
func (m *Manager) Optimize() int {
	m.mu.RLock()
	all := make([]*resource, 0, len(m.resources))
	for _, res := range m.resources {
		all = append(all, res)
	}
	m.mu.RUnlock()

	var loaded []*resource
	var newest *resource
	var newestSeq uint64
	for _, res := range all {
		res.mu.Lock()
		if res.state == StateLoaded {
			loaded = append(loaded, res)
			if newest == nil || res.seq > newestSeq {
				newest, newestSeq = res, res.seq
			}
		}
		res.mu.Unlock()
	}
	if len(loaded) <= 1 {
		return 0
	}

	n := 0
	for _, res := range loaded {
		if res == newest {
			continue
		}
		if m.unloadResource(res) {
			n++
			m.log.Info().Str("resource", res.name).Msg("evicted")
			m.publisher.Publish(Event{Name: "evict", Resource: res.name})
		}
	}
	if n > 0 {
		m.evictionsTotal.Add(uint64(n))
		evictedTotal.Add(float64(n))
	}
	return n
}

// unloadResource moves a loaded resource back to unloaded and releases its
// instance. Safe on any state: returns false when nothing was loaded.
func (m *Manager) unloadResource(res *resource) bool {
	res.mu.Lock()
	if res.state != StateLoaded {
		res.mu.Unlock()
		return false
	}
	inst := res.instance
	res.instance = nil
	res.state = StateUnloaded
	res.mu.Unlock()
	m.addUsed(-res.estCost)
	closeInstance(inst)
	return true
}
