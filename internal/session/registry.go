package session

import (
	"context"
	"log/slog"
	"sync"
)

// Registry hands out the manager for a session key, creating and restoring
// it on first use. All requests carrying the same key share one manager per
// process, so mutations from one client serialize behind its mutex.
type Registry struct {
	mu         sync.Mutex
	store      BlobStore
	adminEmail string
	log        *slog.Logger
	managers   map[string]*Manager
}

func NewRegistry(store BlobStore, adminEmail string, log *slog.Logger) *Registry {
	return &Registry{
		store:      store,
		adminEmail: adminEmail,
		log:        log,
		managers:   make(map[string]*Manager),
	}
}

func (r *Registry) Manager(ctx context.Context, key string) *Manager {
	r.mu.Lock()
	m, ok := r.managers[key]
	if !ok {
		m = NewManager(r.store, key, r.adminEmail, r.log)
		r.managers[key] = m
	}
	r.mu.Unlock()

	m.Restore(ctx)
	return m
}

// Drop evicts a cached manager. The persisted blob is left alone; the next
// Manager call for the key restores from it.
func (r *Registry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, key)
}
