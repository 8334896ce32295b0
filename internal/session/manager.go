package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"equipment-dashboard/internal/storage"
)

// DefaultKeyPrefix namespaces session entries in storage.
const DefaultKeyPrefix = "auth"

// DefaultIdle is how long an unused store stays in the working set.
const DefaultIdle = time.Hour

// Manager hands out one Store per session id. A store is restored from
// storage the first time its id is seen and then kept in memory until it has
// been idle for the configured time.
type Manager struct {
	storage storage.Storage
	prefix  string

	mu     sync.Mutex
	active *cache.Cache
}

// NewManager creates a manager. Stores unused for idle are evicted from the
// working set; idle <= 0 means DefaultIdle.
func NewManager(s storage.Storage, prefix string, idle time.Duration) *Manager {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if idle <= 0 {
		idle = DefaultIdle
	}
	return &Manager{
		storage: s,
		prefix:  prefix,
		active:  cache.New(idle, idle),
	}
}

// Key returns the storage key for a session id.
func (m *Manager) Key(id string) string {
	return fmt.Sprintf("%s:%s", m.prefix, id)
}

// Open returns the store for id, restoring it on first use.
func (m *Manager) Open(ctx context.Context, id string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, found := m.active.Get(id); found {
		st := v.(*Store)
		// Touch to extend the idle window.
		m.active.SetDefault(id, st)
		return st, nil
	}

	st := NewStore(m.storage, m.Key(id))
	if err := st.Restore(ctx); err != nil {
		return nil, err
	}
	m.active.SetDefault(id, st)
	return st, nil
}
