package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
	"github.com/diecastgarage/storefront/internal/pkg/metrics"
)

const defaultSessionIdleTTL = 30 * time.Minute

// Session is one browser-equivalent scope. Its id namespaces the local cache.
type Session struct {
	id            string
	cart          *CartService
	favorites     *FavoritesService
	notifications *NotificationService

	mu       sync.Mutex
	identity *domain.User
	lastSeen time.Time
}

func (s *Session) ID() string { return s.id }

func (s *Session) Identity() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// SetIdentity records the signed-in user (nil after logout) and runs the
// favorites transition. Repeating the current identity does nothing.
func (s *Session) SetIdentity(ctx context.Context, user *domain.User) {
	s.mu.Lock()
	s.identity = user
	s.mu.Unlock()
	s.favorites.OnAuthChange(ctx, user)
}

func (s *Session) Cart() ports.CartStore                  { return s.cart }
func (s *Session) Favorites() ports.FavoritesStore        { return s.favorites }
func (s *Session) Notifications() ports.NotificationQueue { return s.notifications }

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionRegistry creates sessions on first use and evicts idle ones. The
// local cache outlives eviction, so a returning session id restores its cart
// and favorites.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cache   ports.LocalCache
	store   ports.DocumentStore
	writes  ports.WriteQueue
	idleTTL time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

func NewSessionRegistry(cache ports.LocalCache, store ports.DocumentStore, writes ports.WriteQueue, idleTTL time.Duration, logger zerolog.Logger) *SessionRegistry {
	if idleTTL <= 0 {
		idleTTL = defaultSessionIdleTTL
	}
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		cache:    cache,
		store:    store,
		writes:   writes,
		idleTTL:  idleTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Session returns the session for id, restoring a new one from the local
// cache when it is not held in memory.
func (r *SessionRegistry) Session(ctx context.Context, id string) ports.Session {
	return r.get(ctx, id)
}

func (r *SessionRegistry) get(ctx context.Context, id string) *Session {
	now := r.now()

	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		s.touch(now)
		return s
	}

	created := r.newSession(ctx, id)
	created.touch(now)

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		created.notifications.Close()
		return s
	}
	r.sessions[id] = created
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return created
}

func (r *SessionRegistry) newSession(ctx context.Context, id string) *Session {
	log := r.logger.With().Str("session", id).Logger()
	notes := NewNotificationService(log)

	cart := NewCartService(id, r.cache, log)
	cart.Restore(ctx)

	favs := NewFavoritesService(id, r.cache, r.store, r.writes, notes, log)
	favs.Load(ctx)

	return &Session{id: id, cart: cart, favorites: favs, notifications: notes}
}

// Evict drops a session from memory.
func (r *SessionRegistry) Evict(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	if ok {
		s.notifications.Close()
	}
}

// Len returns the number of sessions held in memory.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run evicts idle sessions until ctx is cancelled.
func (r *SessionRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(); n > 0 {
				r.logger.Debug().Int("evicted", n).Msg("idle sessions evicted")
			}
		}
	}
}

// EvictIdle drops every session unused for longer than the idle TTL.
func (r *SessionRegistry) EvictIdle() int {
	now := r.now()

	r.mu.Lock()
	var idle []string
	for id, s := range r.sessions {
		if s.idleSince(now) > r.idleTTL {
			idle = append(idle, id)
		}
	}
	r.mu.Unlock()

	for _, id := range idle {
		r.Evict(id)
	}
	return len(idle)
}
