// Package blob loads file payloads fully into memory. It is the concrete
// resource kind the daemon registers; anything expensive can stand behind the
// same Builder boundary.
package blob

import (
	"fmt"
	"os"

	"resourced/internal/manager"
)

// Blob is a file payload held in memory.
type Blob struct {
	Path string
	Data []byte
}

// Size is the in-memory payload size in bytes.
func (b *Blob) Size() int64 { return int64(len(b.Data)) }

// Close drops the payload reference so it can be collected.
func (b *Blob) Close() error {
	b.Data = nil
	return nil
}

// Open reads the file at path into memory.
func Open(path string) (*Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return &Blob{Path: path, Data: data}, nil
}

// Builder returns a manager.Builder that loads path on demand.
func Builder(path string) manager.Builder {
	return manager.BuilderFunc(func() (any, error) {
		return Open(path)
	})
}
