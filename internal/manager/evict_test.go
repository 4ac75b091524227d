package manager

import (
	"context"
	"testing"
)

func TestOptimizeKeepsNewest(t *testing.T) {
	m := New(ampleStats())
	crb := &closeRecBuilder{}
	for _, name := range []string{"a", "b", "c"} {
		if err := m.Register(name, "blob", 1_000, crb); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		if _, err := m.Get(ctx, name); err != nil {
			t.Fatalf("get %s: %v", name, err)
		}
	}
	if got := m.UsedEstBytes(); got != 3_000 {
		t.Fatalf("used estimate before optimize = %d, want 3000", got)
	}

	if n := m.Optimize(); n != 2 {
		t.Fatalf("Optimize() = %d, want 2", n)
	}
	for _, tc := range []struct {
		name string
		want State
	}{
		{"a", StateUnloaded},
		{"b", StateUnloaded},
		{"c", StateLoaded},
	} {
		st, err := m.Status(tc.name)
		if err != nil {
			t.Fatalf("status %s: %v", tc.name, err)
		}
		if st.State != string(tc.want) {
			t.Errorf("state(%s) = %s, want %s", tc.name, st.State, tc.want)
		}
	}
	if got := m.UsedEstBytes(); got != 1_000 {
		t.Fatalf("used estimate after optimize = %d, want 1000", got)
	}
	// The evicted instances were released; the survivor was not.
	built := crb.instances()
	if len(built) != 3 {
		t.Fatalf("expected 3 builds, got %d", len(built))
	}
	if !built[0].closed.Load() || !built[1].closed.Load() {
		t.Errorf("evicted instances not closed")
	}
	if built[2].closed.Load() {
		t.Errorf("surviving instance was closed")
	}
}

func TestOptimizeReloadRefreshesRecency(t *testing.T) {
	m := New(ampleStats())
	cb := &countBuilder{}
	for _, name := range []string{"a", "b"} {
		if err := m.Register(name, "blob", 1, cb); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	ctx := context.Background()
	if _, err := m.Get(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	// Reloading a makes it the most recent again.
	if _, err := m.Reload(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if n := m.Optimize(); n != 1 {
		t.Fatalf("Optimize() = %d, want 1", n)
	}
	stA, _ := m.Status("a")
	stB, _ := m.Status("b")
	if stA.State != string(StateLoaded) || stB.State != string(StateUnloaded) {
		t.Fatalf("after optimize: a=%s b=%s, want loaded/unloaded", stA.State, stB.State)
	}
}

func TestOptimizeNoopCases(t *testing.T) {
	m := New(ampleStats())
	if n := m.Optimize(); n != 0 {
		t.Fatalf("empty registry: Optimize() = %d, want 0", n)
	}
	cb := &countBuilder{}
	if err := m.Register("only", "blob", 1, cb); err != nil {
		t.Fatal(err)
	}
	if n := m.Optimize(); n != 0 {
		t.Fatalf("nothing loaded: Optimize() = %d, want 0", n)
	}
	if _, err := m.Get(context.Background(), "only"); err != nil {
		t.Fatal(err)
	}
	if n := m.Optimize(); n != 0 {
		t.Fatalf("single loaded resource: Optimize() = %d, want 0", n)
	}
	st, _ := m.Status("only")
	if st.State != string(StateLoaded) {
		t.Fatalf("sole resource must survive optimize, got %s", st.State)
	}
}
