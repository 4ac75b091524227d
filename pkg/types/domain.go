package types

// Resource describes a registrable resource backed by a file on disk.
type Resource struct {
	// Stable identifier for the resource.
	// example: embeddings-large
	Name string `json:"name" yaml:"name" example:"embeddings-large"`
	// Free-form classification tag, used for reporting only.
	// example: blob
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty" example:"blob"`
	// Absolute path to the payload on disk.
	// example: /var/lib/resourced/embeddings-large.bin
	Path string `json:"path" yaml:"path" example:"/var/lib/resourced/embeddings-large.bin"`
	// Estimated in-memory footprint in bytes. Zero means "derive from the
	// file size on disk".
	// example: 8000000000
	CostBytes int64 `json:"cost_bytes,omitempty" yaml:"cost_bytes,omitempty" example:"8000000000"`
}
