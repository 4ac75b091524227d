package types

// ResourceStatus summarizes one registered resource for status endpoints.
type ResourceStatus struct {
	// Resource name.
	// example: embeddings-large
	Name string `json:"name" example:"embeddings-large"`
	// Classification tag supplied at registration.
	// example: blob
	Kind string `json:"kind,omitempty" example:"blob"`
	// Current lifecycle state (unloaded, loading, loaded, error).
	// example: loaded
	State string `json:"state" example:"loaded"`
	// Estimated footprint in bytes supplied at registration.
	// example: 8000000000
	EstCostBytes int64 `json:"est_cost_bytes" example:"8000000000"`
	// Completion time of the last successful load (unix seconds, 0 if never).
	// example: 1700000000
	LoadedAtUnix int64 `json:"loaded_at_unix,omitempty" example:"1700000000"`
	// Duration of the last load attempt in milliseconds.
	// example: 1250
	LastLoadMs int64 `json:"last_load_ms,omitempty" example:"1250"`
	// Last load error, if the most recent attempt failed.
	LastError string `json:"last_error,omitempty"`
}

// MemoryStats mirrors the manager's view of host memory.
type MemoryStats struct {
	// Total physical memory in bytes.
	// example: 32000000000
	TotalBytes uint64 `json:"total_bytes" example:"32000000000"`
	// Memory currently available for new allocations.
	// example: 20000000000
	AvailableBytes uint64 `json:"available_bytes" example:"20000000000"`
	// Memory currently in use.
	// example: 5000000000
	UsedBytes uint64 `json:"used_bytes" example:"5000000000"`
	// UsedBytes / TotalBytes.
	// example: 0.16
	UsedFraction float64 `json:"used_fraction" example:"0.16"`
	// Whether an accelerator device was detected on the host.
	// example: false
	AcceleratorAvailable bool `json:"accelerator_available" example:"false"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Per-resource status, sorted by name.
	Resources []ResourceStatus `json:"resources"`
	// Sum of estimated cost across loaded resources.
	// example: 8000000000
	UsedEstBytes int64 `json:"used_est_bytes" example:"8000000000"`
	// Host memory snapshot taken for this response.
	Memory MemoryStats `json:"memory"`
	// Advisory byte ceiling a single load may consume, per the configured
	// budget strategy. Informational only.
	// example: 14000000000
	RecommendedBudgetBytes int64 `json:"recommended_budget_bytes" example:"14000000000"`
	// Total successful loads since start.
	// example: 12
	LoadsTotal uint64 `json:"loads_total" example:"12"`
	// Total resources unloaded by eviction since start.
	// example: 5
	EvictionsTotal uint64 `json:"evictions_total" example:"5"`
	// Uptime of the manager in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
}

// ResourcesResponse wraps the list returned by GET /resources.
type ResourcesResponse struct {
	Resources []ResourceStatus `json:"resources"`
}

// UnloadResponse is returned by POST /resources/{name}/unload.
type UnloadResponse struct {
	// Whether an instance was actually released.
	// example: true
	Unloaded bool `json:"unloaded" example:"true"`
}

// OptimizeResponse is returned by POST /optimize.
type OptimizeResponse struct {
	// Number of resources unloaded by the eviction pass.
	// example: 2
	Unloaded int `json:"unloaded" example:"2"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: resource not registered: embeddings-large
	Error string `json:"error" example:"resource not registered: embeddings-large"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
	// Admission denial reason when Code is 503 and the load was refused.
	// example: insufficient_headroom
	Reason string `json:"reason,omitempty" example:"insufficient_headroom"`
}
