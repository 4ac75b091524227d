package manager

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func TestStatusAll(t *testing.T) {
	m := New(ampleStats())
	cb := &countBuilder{}
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := m.Register(name, "blob", 500, cb); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := m.Get(context.Background(), "mid"); err != nil {
		t.Fatal(err)
	}

	resp := m.StatusAll()
	if len(resp.Resources) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(resp.Resources))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if resp.Resources[i].Name != want {
			t.Errorf("resources[%d] = %s, want %s (sorted)", i, resp.Resources[i].Name, want)
		}
	}
	var mid *struct {
		state    string
		loadedAt int64
	}
	for _, rs := range resp.Resources {
		if rs.Name == "mid" {
			mid = &struct {
				state    string
				loadedAt int64
			}{rs.State, rs.LoadedAtUnix}
		} else if rs.State != string(StateUnloaded) {
			t.Errorf("%s state = %s, want unloaded", rs.Name, rs.State)
		}
	}
	if mid == nil || mid.state != string(StateLoaded) || mid.loadedAt == 0 {
		t.Fatalf("mid status wrong: %+v", mid)
	}
	if resp.UsedEstBytes != 500 {
		t.Errorf("UsedEstBytes = %d, want 500", resp.UsedEstBytes)
	}
	if resp.Memory.TotalBytes != 32_000_000_000 {
		t.Errorf("Memory.TotalBytes = %d", resp.Memory.TotalBytes)
	}
	if resp.RecommendedBudgetBytes <= 0 {
		t.Errorf("RecommendedBudgetBytes = %d, want > 0", resp.RecommendedBudgetBytes)
	}
	if resp.LoadsTotal != 1 {
		t.Errorf("LoadsTotal = %d, want 1", resp.LoadsTotal)
	}
	if resp.UptimeSeconds < 0 {
		t.Errorf("UptimeSeconds = %d", resp.UptimeSeconds)
	}
}

func TestStatusErrorDetail(t *testing.T) {
	m := New(ampleStats())
	cb := &countBuilder{failFirst: 1}
	if err := m.Register("flaky", "blob", 1, cb); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(context.Background(), "flaky"); err == nil {
		t.Fatal("expected first load to fail")
	}
	st, err := m.Status("flaky")
	if err != nil {
		t.Fatal(err)
	}
	if st.State != string(StateError) || st.LastError == "" {
		t.Fatalf("status after failure = %+v", st)
	}
	if st.LastLoadMs < 0 {
		t.Fatalf("LastLoadMs = %d", st.LastLoadMs)
	}
	if _, err := m.Status("ghost"); !IsNotRegistered(err) {
		t.Fatalf("Status unknown = %v, want not-registered", err)
	}
}

// Hammers one manager with random gets, reloads, unloads and optimizes,
// then checks the invariant that holds in every quiescent moment: a
// resource holds an instance exactly when its state is loaded.
func TestRandomOpsPreserveStateInstanceCoupling(t *testing.T) {
	m := NewWithConfig(ManagerConfig{Stats: ampleStats(), MaxParallelLoads: 2})
	names := make([]string, 5)
	for i := range names {
		names[i] = fmt.Sprintf("res-%d", i)
		cb := &countBuilder{failFirst: int32(i % 2), delay: time.Millisecond}
		if err := m.Register(names[i], "blob", int64(100*(i+1)), cb); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			ctx := context.Background()
			for i := 0; i < 200; i++ {
				name := names[rng.Intn(len(names))]
				switch rng.Intn(10) {
				case 0:
					_, _ = m.Reload(ctx, name)
				case 1:
					_, _ = m.Unload(name)
				case 2:
					_ = m.Optimize()
				default:
					_, _ = m.Get(ctx, name)
				}
			}
		}(int64(w))
	}
	wg.Wait()

	var totalLoadedCost int64
	for _, name := range names {
		res := m.lookup(name)
		res.mu.Lock()
		if (res.state == StateLoaded) != (res.instance != nil) {
			t.Errorf("%s: state %s with instance %v", name, res.state, res.instance)
		}
		if res.state == StateLoading {
			t.Errorf("%s: still loading after all workers returned", name)
		}
		if res.state == StateLoaded {
			totalLoadedCost += res.estCost
		}
		res.mu.Unlock()
	}
	if got := m.UsedEstBytes(); got != totalLoadedCost {
		t.Errorf("used estimate %d != sum of loaded costs %d", got, totalLoadedCost)
	}
}
