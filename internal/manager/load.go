package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
)

// Get returns the instance for name, loading it first if needed. Concurrent
// callers for the same name share a single build: at most one builder
// invocation is in flight per name, and every waiter receives that build's
// outcome. The returned instance is borrowed and stays valid until the next
// unload of that name.
//
// ctx covers waiting (for an in-flight load, or for a load-gate slot) only.
// Once a build has started it always runs to completion; a caller that gives
// up does not abort it.
func (m *Manager) Get(ctx context.Context, name string) (any, error) {
	return m.get(ctx, name, false)
}

// Reload forces a fresh build for name even when it is already loaded. The
// previous instance is released when the rebuild begins.
func (m *Manager) Reload(ctx context.Context, name string) (any, error) {
	return m.get(ctx, name, true)
}

func (m *Manager) get(ctx context.Context, name string, force bool) (any, error) {
	res := m.lookup(name)
	if res == nil {
		return nil, ErrNotRegistered(name)
	}
	for {
		res.mu.Lock()
		switch {
		case res.gone:
			res.mu.Unlock()
			return nil, ErrNotRegistered(name)
		case res.state == StateLoaded && !force:
			inst := res.instance
			res.mu.Unlock()
			return inst, nil
		case res.state == StateLoading:
			done := res.loading
			res.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			// Adopt the in-flight outcome rather than racing to start a
			// second build. A forced reload adopts too: the build that just
			// finished is as fresh as the one it would start.
			res.mu.Lock()
			switch res.state {
			case StateLoaded:
				inst := res.instance
				res.mu.Unlock()
				return inst, nil
			case StateError:
				err := res.lastErr
				res.mu.Unlock()
				return nil, err
			}
			res.mu.Unlock()
			// State moved on again (unloaded, or a new load); re-evaluate.
			force = false
		default:
			// Unloaded, error, or forced reload: this caller runs the build.
			return m.load(ctx, res, force)
		}
	}
}

// load drives one build cycle for res. Called with res.mu held and state
// eligible (unloaded, error, or loaded with force); returns with it released.
func (m *Manager) load(ctx context.Context, res *resource, force bool) (inst any, err error) {
	st := m.stats.CurrentStats()
	if v := m.admission.ShouldAdmit(res.name, res.estCost, st); !v.Allowed {
		err := ErrAdmissionDenied(res.name, v.Reason)
		if res.state == StateLoaded {
			// Forced reload refused: keep the working instance instead of
			// trading it for an error state.
			res.mu.Unlock()
		} else {
			res.state = StateError
			res.lastErr = err
			res.mu.Unlock()
		}
		admissionDeniedTotal.WithLabelValues(string(v.Reason)).Inc()
		m.log.Warn().
			Str("resource", res.name).
			Str("reason", string(v.Reason)).
			Uint64("available_bytes", st.AvailableBytes).
			Int64("est_cost_bytes", res.estCost).
			Msg("load denied")
		m.publisher.Publish(Event{Name: "admission_denied", Resource: res.name, Fields: map[string]any{"reason": string(v.Reason)}})
		return nil, err
	}

	opID := uuid.NewString()
	prev := res.instance
	wasLoaded := res.state == StateLoaded
	done := make(chan struct{})
	// The descriptor turns loading here, before the gate wait rather than
	// after it. Waiters key off the loading channel, so a Get arriving while
	// this attempt is still queued on the gate joins it instead of starting
	// a second build for the same name. Status therefore reports "loading"
	// for the whole attempt, queued time included.
	res.loading = done
	res.state = StateLoading
	res.instance = nil
	res.mu.Unlock()

	if wasLoaded {
		m.addUsed(-res.estCost)
	}
	closeInstance(prev)
	m.log.Debug().Str("resource", res.name).Str("op", opID).Bool("force", force).Msg("load start")
	m.publisher.Publish(Event{Name: "load_start", Resource: res.name, OpID: opID})

	// A panicking builder is not contained here, but the registry must not
	// strand waiters or leak state before the panic propagates.
	defer func() {
		if r := recover(); r != nil {
			m.finishError(res, done, ErrConstructionFailed(res.name, fmt.Errorf("builder panic: %v", r)))
			panic(r)
		}
	}()

	if err := m.gate.acquire(ctx); err != nil {
		// Gave up waiting for a load slot; the build never started.
		m.finishError(res, done, err)
		m.publisher.Publish(Event{Name: "load_error", Resource: res.name, OpID: opID, Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}

	start := time.Now()
	inst, buildErr := m.build(res)
	dur := time.Since(start)
	loadDuration.Observe(dur.Seconds())

	res.mu.Lock()
	res.lastDur = dur
	res.mu.Unlock()

	if buildErr != nil {
		werr := ErrConstructionFailed(res.name, buildErr)
		m.finishError(res, done, werr)
		loadsTotal.WithLabelValues("error").Inc()
		m.log.Error().Err(buildErr).Str("resource", res.name).Str("op", opID).Dur("dur", dur).Msg("load failed")
		m.publisher.Publish(Event{Name: "load_error", Resource: res.name, OpID: opID, Fields: map[string]any{"error": buildErr.Error()}})
		return nil, werr
	}

	res.mu.Lock()
	if res.gone {
		// Deregistered while building; the instance has no home.
		res.state = StateUnloaded
		res.loading = nil
		close(done)
		res.mu.Unlock()
		closeInstance(inst)
		return nil, ErrNotRegistered(res.name)
	}
	res.state = StateLoaded
	res.instance = inst
	res.lastErr = nil
	res.loadedAt = time.Now()
	res.seq = m.seqCounter.Add(1)
	res.loading = nil
	close(done)
	res.mu.Unlock()

	m.addUsed(res.estCost)
	m.loadsTotal.Add(1)
	loadsTotal.WithLabelValues("ok").Inc()
	m.log.Info().
		Str("resource", res.name).
		Str("op", opID).
		Dur("dur", dur).
		Str("est_cost", units.BytesSize(float64(res.estCost))).
		Msg("load ready")
	m.publisher.Publish(Event{Name: "load_ready", Resource: res.name, OpID: opID, Fields: map[string]any{"dur_ms": dur.Milliseconds()}})
	return inst, nil
}

// build invokes the builder with a gate slot held. The slot is released on
// every exit, including a builder panic.
func (m *Manager) build(res *resource) (any, error) {
	defer m.gate.release()
	return res.builder.Build()
}

// finishError records a failed load cycle and wakes waiters.
func (m *Manager) finishError(res *resource, done chan struct{}, err error) {
	res.mu.Lock()
	res.state = StateError
	res.lastErr = err
	res.instance = nil
	res.loading = nil
	res.mu.Unlock()
	close(done)
}
