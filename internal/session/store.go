// Package session keeps one map view controller per browser session.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/joeblew999/plat-floormap/internal/mapview"
)

// CookieName carries the session id.
const CookieName = "floormap_session"

// Factory builds the controller for a new session id.
type Factory func(id string) *mapview.Controller

// Observer is told when sessions start and expire.
type Observer interface {
	SessionOpened()
	SessionClosed()
}

// Store holds controllers in memory with a sliding idle timeout.
type Store struct {
	mu      sync.Mutex
	cache   *cache.Cache
	factory Factory
	ttl     time.Duration
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	cleanup time.Duration
}

// WithCleanupInterval sets how often expired sessions are purged. Zero
// disables the background janitor; expired sessions are then only
// skipped on lookup.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *storeOptions) { o.cleanup = d }
}

// NewStore creates a store. Sessions idle for longer than ttl are dropped.
// obs may be nil.
func NewStore(ttl time.Duration, factory Factory, obs Observer, opts ...Option) *Store {
	o := storeOptions{cleanup: ttl / 2}
	for _, opt := range opts {
		opt(&o)
	}
	c := cache.New(ttl, o.cleanup)
	if obs != nil {
		c.OnEvicted(func(string, any) { obs.SessionClosed() })
	}
	s := &Store{cache: c, factory: factory, ttl: ttl}
	if obs != nil {
		s.factory = func(id string) *mapview.Controller {
			obs.SessionOpened()
			return factory(id)
		}
	}
	return s
}

// Get returns the controller for id, creating a session under a fresh id
// when id is empty or unknown. The returned id is the one to put in the
// cookie; created is true when it is new.
func (s *Store) Get(id string) (ctrl *mapview.Controller, sessionID string, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if v, ok := s.cache.Get(id); ok {
			ctrl = v.(*mapview.Controller)
			s.cache.Set(id, ctrl, cache.DefaultExpiration)
			return ctrl, id, false
		}
	}
	sessionID = uuid.NewString()
	ctrl = s.factory(sessionID)
	s.cache.Set(sessionID, ctrl, cache.DefaultExpiration)
	return ctrl, sessionID, true
}

// Lookup returns an existing controller without creating one.
func (s *Store) Lookup(id string) (*mapview.Controller, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*mapview.Controller), true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// Delete drops a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// TTL is the idle timeout.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Cookie builds the session cookie for id.
func Cookie(id string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
