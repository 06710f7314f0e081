package cache

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/crewpulse/workload-backend/internal/core/domain"
)

// DefaultTTL is how long a cached capacity profile stays fresh.
const DefaultTTL = 5 * time.Minute

type entry struct {
	profile  domain.CapacityProfile
	storedAt time.Time
}

// ProfileCache memoizes capacity profiles keyed by user and team. Keys are
// independent: concurrent reads and a single writer per key are safe, and
// writes are last-writer-wins with no cross-key locking.
type ProfileCache struct {
	entries *xsync.Map[string, entry]
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a ProfileCache.
type Option func(*ProfileCache)

// WithClock overrides the cache's time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *ProfileCache) {
		c.now = now
	}
}

// New creates a profile cache with the given TTL. A non-positive TTL falls
// back to DefaultTTL.
func New(ttl time.Duration, opts ...Option) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &ProfileCache{
		entries: xsync.NewMap[string, entry](),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(userID, teamID string) string {
	return userID + "/" + teamID
}

// Get returns the cached profile for the member if present and fresh.
func (c *ProfileCache) Get(userID, teamID string) (domain.CapacityProfile, bool) {
	key := cacheKey(userID, teamID)
	e, ok := c.entries.Load(key)
	if !ok {
		return domain.CapacityProfile{}, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.entries.Delete(key)
		return domain.CapacityProfile{}, false
	}
	return e.profile, true
}

// Put stores the profile for the member, replacing any existing entry.
func (c *ProfileCache) Put(userID, teamID string, profile domain.CapacityProfile) {
	c.entries.Store(cacheKey(userID, teamID), entry{profile: profile, storedAt: c.now()})
}

// Invalidate drops the member's cached profile immediately.
func (c *ProfileCache) Invalidate(userID, teamID string) {
	c.entries.Delete(cacheKey(userID, teamID))
}

// Len returns the number of cached entries, expired ones included.
func (c *ProfileCache) Len() int {
	return c.entries.Size()
}
