// Package session keeps the per-browser page instances in memory. Each
// instance owns its import state, sidebar state and profile form; nothing
// is shared between instances and nothing is persisted.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/scizon/internal/dashboard"
	"github.com/JonMunkholm/scizon/internal/importer"
)

// DefaultIdleTTL is used when the store is built with a non-positive TTL.
const DefaultIdleTTL = 30 * time.Minute

// Instance is one page instance.
type Instance struct {
	ID        string
	CreatedAt time.Time

	Import  *importer.Session
	Sidebar *dashboard.Sidebar
	Profile *dashboard.ProfileForm

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns when the instance was last touched.
func (i *Instance) LastSeen() time.Time {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastSeen
}

func (i *Instance) touch(now time.Time) {
	i.mu.Lock()
	i.lastSeen = now
	i.mu.Unlock()
}

// Config holds the settings the store passes to new instances.
type Config struct {
	IdleTTL          time.Duration
	NavItems         []dashboard.NavItem
	ProfileSaveDelay time.Duration
}

// Store maps session ids to page instances.
type Store struct {
	importer *importer.Importer
	cfg      Config
	now      func() time.Time

	mu        sync.RWMutex
	instances map[string]*Instance
}

// NewStore builds an empty store whose instances import through imp.
func NewStore(imp *importer.Importer, cfg Config) *Store {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.NavItems == nil {
		cfg.NavItems = dashboard.DefaultNavItems()
	}
	return &Store{
		importer:  imp,
		cfg:       cfg,
		now:       time.Now,
		instances: make(map[string]*Instance),
	}
}

// Ensure returns the instance for id, creating one when id is unknown or
// not a valid uuid. created reports whether a new instance (and id) was made.
func (s *Store) Ensure(id string) (inst *Instance, created bool) {
	now := s.now()

	if inst := s.Get(id); inst != nil {
		inst.touch(now)
		return inst, false
	}

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if inst, ok := s.instances[id]; ok {
		inst.touch(now)
		return inst, false
	}
	inst = s.newInstance(id, now)
	s.instances[id] = inst
	return inst, true
}

func (s *Store) newInstance(id string, now time.Time) *Instance {
	inst := &Instance{
		ID:        id,
		CreatedAt: now,
		Import:    s.importer.NewSession(),
		Profile:   dashboard.NewProfileForm(s.cfg.ProfileSaveDelay),
		lastSeen:  now,
	}
	inst.Sidebar = dashboard.NewSidebar(s.cfg.NavItems, func() { s.Remove(id) })
	return inst
}

// Get returns the instance for id or nil.
func (s *Store) Get(id string) *Instance {
	if id == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.instances[id]
}

// Remove drops the instance for id. An in-flight import keeps running and
// settles into the detached session.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.instances, id)
	s.mu.Unlock()
}

// Len returns the number of live instances.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.instances)
}

// Sweep evicts instances idle for longer than the TTL. Instances with an
// import in flight are kept. Returns the number evicted.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, inst := range s.instances {
		if inst.LastSeen().After(cutoff) || inst.Import.Busy() {
			continue
		}
		delete(s.instances, id)
		evicted++
	}
	return evicted
}

// RunJanitor sweeps the store every interval until ctx is cancelled.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	slog.Info("session janitor started",
		"interval", interval.String(),
		"idle_ttl", s.cfg.IdleTTL.String(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopped")
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Info("evicted idle sessions", "evicted", n, "remaining", s.Len())
			}
		}
	}
}
