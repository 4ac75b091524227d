// Package manager provides an admission-controlled, concurrency-bounded
// cache for expensive in-process resources. It is structured into small
// files by concern:
//
//   - manager.go: core Manager type, registration, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: State, Builder, and the internal resource descriptor.
//   - errors.go: error types and helpers (IsNotRegistered, IsAdmissionDenied, ...).
//   - stats.go: Stats snapshot and the StatsProvider boundary.
//   - admission.go: AdmissionController checks and advisory budget sizing.
//   - gate.go: the global bound on simultaneous builder invocations.
//   - load.go: Get/Reload and the get-or-load protocol.
//   - unload.go, evict.go: unload and the recency eviction policy.
//   - status.go: per-resource and bulk status reporting.
//   - events.go: lifecycle event publishing.
//   - metrics.go: Prometheus instrumentation.
//
// The guarantees callers can rely on:
//
//   - At most one builder invocation is in flight per name; concurrent Get
//     calls for the same name share one outcome.
//   - A descriptor holds an instance if and only if its state is loaded.
//   - At most MaxParallelLoads builders run at once across all names.
//   - A failed load (admission denial or builder error) leaves the resource
//     in the error state, from which the next Get retries immediately.
//
// External packages should treat this package as the orchestration layer and
// use public methods only. Resource construction itself is an opaque Builder
// supplied at registration; the manager never inspects instances beyond an
// optional io.Closer on unload.
package manager
