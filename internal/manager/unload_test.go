package manager

import (
	"context"
	"testing"
)

func TestUnload(t *testing.T) {
	m := New(ampleStats())
	crb := &closeRecBuilder{}
	if err := m.Register("r", "blob", 2_000, crb); err != nil {
		t.Fatal(err)
	}

	// Not loaded yet: a quiet no-op.
	ok, err := m.Unload("r")
	if err != nil || ok {
		t.Fatalf("Unload before load = (%v, %v), want (false, nil)", ok, err)
	}

	if _, err := m.Get(context.Background(), "r"); err != nil {
		t.Fatal(err)
	}
	ok, err = m.Unload("r")
	if err != nil || !ok {
		t.Fatalf("Unload = (%v, %v), want (true, nil)", ok, err)
	}
	if got := m.UsedEstBytes(); got != 0 {
		t.Fatalf("used estimate after unload = %d, want 0", got)
	}
	if inst := crb.instances(); len(inst) != 1 || !inst[0].closed.Load() {
		t.Fatalf("unload must close the released instance")
	}
	st, err := m.Status("r")
	if err != nil {
		t.Fatal(err)
	}
	if st.State != string(StateUnloaded) {
		t.Fatalf("state after unload = %s, want unloaded", st.State)
	}

	// Second unload is idempotent.
	ok, err = m.Unload("r")
	if err != nil || ok {
		t.Fatalf("second Unload = (%v, %v), want (false, nil)", ok, err)
	}

	// The descriptor survives: the resource loads again afterwards.
	if _, err := m.Get(context.Background(), "r"); err != nil {
		t.Fatalf("reload after unload: %v", err)
	}
}

func TestUnloadUnknown(t *testing.T) {
	m := New(ampleStats())
	ok, err := m.Unload("ghost")
	if ok || !IsNotRegistered(err) {
		t.Fatalf("Unload unknown = (%v, %v), want (false, not-registered)", ok, err)
	}
}
