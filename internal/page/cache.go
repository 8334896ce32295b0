package page

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Set is the mounted state of every page for one browser session. Hold the
// lock while reading or changing any page.
type Set struct {
	sync.Mutex

	Dashboard DashboardPage
	Equipment EquipmentPage
	Loans     LoansPage
	History   HistoryPage
	Users     UsersPage
	Alerts    AlertsPage
}

// Cache keeps one Set per session id until it has been idle for ttl.
type Cache struct {
	mu   sync.Mutex
	sets *cache.Cache
}

// NewCache creates a page cache. ttl <= 0 defaults to 30 minutes.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Cache{sets: cache.New(ttl, 2*ttl)}
}

// For returns the Set of a session, creating an empty one when needed.
func (c *Cache) For(sessionID string) *Set {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, found := c.sets.Get(sessionID); found {
		set := v.(*Set)
		c.sets.SetDefault(sessionID, set)
		return set
	}
	set := &Set{}
	c.sets.SetDefault(sessionID, set)
	return set
}

// Drop forgets a session's page state, e.g. on logout.
func (c *Cache) Drop(sessionID string) {
	c.sets.Delete(sessionID)
}
