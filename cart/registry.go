package cart

import (
	"context"
	"sync"
	"time"
)

// RepositoryFactory builds the repository backing one session's cart.
type RepositoryFactory func(session string) Repository

type registryEntry struct {
	store    *Store
	lastUsed time.Time
}

// Registry hands out one Store per session, loading it on first use.
// Loads run outside the registry lock so a slow backend only delays the
// session being opened.
type Registry struct {
	mu      sync.Mutex
	stores  map[string]*registryEntry
	factory RepositoryFactory
	opts    []Option
	now     func() time.Time
}

func NewRegistry(factory RepositoryFactory, opts ...Option) *Registry {
	return &Registry{
		stores:  make(map[string]*registryEntry),
		factory: factory,
		opts:    opts,
		now:     time.Now,
	}
}

// Get returns the store for session, opening it from its repository if it
// is not loaded yet. A failed load is returned and nothing is cached, so
// the next call retries.
func (r *Registry) Get(ctx context.Context, session string) (*Store, error) {
	if s, ok := r.lookup(session); ok {
		return s, nil
	}

	opened, err := Open(ctx, r.factory(session), r.opts...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have loaded the session meanwhile; keep the first.
	if e, ok := r.stores[session]; ok {
		e.lastUsed = r.now()
		return e.store, nil
	}
	r.stores[session] = &registryEntry{store: opened, lastUsed: r.now()}
	return opened, nil
}

func (r *Registry) lookup(session string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stores[session]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.store, true
}

// Forget drops the loaded store for session. The persisted cart is kept.
func (r *Registry) Forget(session string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, session)
}

// Sweep forgets stores not used for longer than idle and returns how many
// were dropped.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	dropped := 0
	for session, e := range r.stores {
		if e.lastUsed.Before(cutoff) {
			delete(r.stores, session)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle stores every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(idle)
		}
	}
}

// Len is the number of loaded stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
