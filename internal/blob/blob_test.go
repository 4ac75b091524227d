package blob

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenAndClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")
	want := bytes.Repeat([]byte{0xAB}, 4096)
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b.Path != path {
		t.Errorf("Path = %q, want %q", b.Path, path)
	}
	if b.Size() != int64(len(want)) {
		t.Errorf("Size = %d, want %d", b.Size(), len(want))
	}
	if !bytes.Equal(b.Data, want) {
		t.Error("payload mismatch")
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if b.Data != nil || b.Size() != 0 {
		t.Error("Close must drop the payload")
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBuilder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	inst, err := Builder(path).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, ok := inst.(*Blob)
	if !ok {
		t.Fatalf("Build returned %T, want *Blob", inst)
	}
	if string(b.Data) != "hello" {
		t.Errorf("Data = %q", b.Data)
	}

	if _, err := Builder(filepath.Join(dir, "missing")).Build(); err == nil {
		t.Fatal("expected build error for missing file")
	}
}
