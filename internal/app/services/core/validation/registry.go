package validation

import (
	"context"
	"sync"
)

// EngineConstructor builds an engine for a key. Construction is expensive
// (code and value-set packages are loaded), which is why the registry exists.
type EngineConstructor func(ctx context.Context, key EngineKey) (Engine, error)

// EngineRegistry caches engines per (kind, profile URL) for the process
// lifetime. Lookup-or-create is atomic: concurrent callers for the same key
// block behind a single construction and observe the same instance. There is
// no eviction; the profile count is small and bounded by configuration.
type EngineRegistry struct {
	mu        sync.Mutex
	entries   map[EngineKey]*registryEntry
	construct EngineConstructor
}

type registryEntry struct {
	done   chan struct{}
	engine Engine
	err    error
}

func NewEngineRegistry(construct EngineConstructor) *EngineRegistry {
	return &EngineRegistry{
		entries:   make(map[EngineKey]*registryEntry),
		construct: construct,
	}
}

// Get returns the cached engine for the key, constructing it on first use.
// A failed construction is not cached so a later call may retry.
func (r *EngineRegistry) Get(ctx context.Context, key EngineKey) (Engine, error) {
	r.mu.Lock()
	if entry, ok := r.entries[key]; ok {
		r.mu.Unlock()
		select {
		case <-entry.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return entry.engine, entry.err
	}

	entry := &registryEntry{done: make(chan struct{})}
	r.entries[key] = entry
	r.mu.Unlock()

	entry.engine, entry.err = r.construct(ctx, key)
	if entry.err != nil {
		r.mu.Lock()
		delete(r.entries, key)
		r.mu.Unlock()
	}
	close(entry.done)

	return entry.engine, entry.err
}

// Size reports the number of constructed engines, for diagnostics.
func (r *EngineRegistry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
