package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
	"github.com/diecastgarage/storefront/internal/pkg/metrics"
)

const (
	// FavoritesCacheKey is the local cache entry owned by favorites.
	FavoritesCacheKey = "diecast-favorites"
	// FavoritesCollection holds one document per user, keyed by user id.
	FavoritesCollection = "favorites"
)

// FavoritesService keeps a session's favorites in memory, mirrored to the
// local cache on every change. While a user is signed in the remote record
// is the source of truth and receives every change as a best-effort write.
type FavoritesService struct {
	mu     sync.Mutex
	scope  string
	userID string
	gen    uint64
	items  []domain.Product
	// loading is set while a sign-in read is in flight; changes made in
	// that window stay local and are replaced by the remote list.
	loading bool
	// pushSeq orders queued pushes; pushedSeq is the newest one written.
	pushSeq   uint64
	pushedSeq uint64

	cache  ports.LocalCache
	store  ports.DocumentStore
	writes ports.WriteQueue
	notify ports.Notifier
	now    func() time.Time
	logger zerolog.Logger
}

func NewFavoritesService(
	scope string,
	cache ports.LocalCache,
	store ports.DocumentStore,
	writes ports.WriteQueue,
	notify ports.Notifier,
	logger zerolog.Logger,
) *FavoritesService {
	return &FavoritesService{
		scope:  scope,
		cache:  cache,
		store:  store,
		writes: writes,
		notify: notify,
		now:    time.Now,
		logger: logger,
	}
}

// Load fills the anonymous list from the local cache.
func (s *FavoritesService) Load(ctx context.Context) {
	items := s.readLocal(ctx)
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// OnAuthChange switches the list to the given identity. Signing in reads the
// user's remote record: an existing record replaces the list, a missing one
// is created from the local list. Remote failures fall back to the local
// cache and are never returned. Signing out reloads the local cache.
func (s *FavoritesService) OnAuthChange(ctx context.Context, user *domain.User) {
	userID := ""
	if user != nil {
		userID = user.ID
	}

	s.mu.Lock()
	if userID == s.userID {
		s.mu.Unlock()
		return
	}
	s.userID = userID
	s.gen++
	s.loading = userID != ""
	gen := s.gen
	s.mu.Unlock()

	if userID == "" {
		s.apply(ctx, gen, s.readLocal(ctx))
		return
	}

	items, migrated := s.loadRemote(ctx, userID)
	if s.apply(ctx, gen, items) && migrated > 0 {
		s.notify.Success("Favorites synchronized", fmt.Sprintf("%d products were synchronized with your account", migrated))
	}
}

func (s *FavoritesService) loadRemote(ctx context.Context, userID string) ([]domain.Product, int) {
	doc, err := s.store.GetDocument(ctx, FavoritesCollection, userID)
	switch {
	case err == nil:
		return domain.FavoritesFromRecord(doc.Data["products"]), 0

	case errors.Is(err, domain.ErrDocumentNotFound):
		local := s.readLocal(ctx)
		stamp := s.now().UTC().Format(time.RFC3339Nano)
		err := s.store.SetDocument(ctx, FavoritesCollection, userID, map[string]any{
			"products":  domain.FavoritesRecord(local),
			"createdAt": stamp,
			"updatedAt": stamp,
		})
		if err != nil {
			metrics.FavoritesRemoteWritesTotal.WithLabelValues("migrate", "error").Inc()
			metrics.FavoritesFallbacksTotal.Inc()
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("migrate favorites, using local cache")
			return local, 0
		}
		metrics.FavoritesRemoteWritesTotal.WithLabelValues("migrate", "ok").Inc()
		return local, len(local)

	default:
		metrics.FavoritesFallbacksTotal.Inc()
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("load remote favorites, using local cache")
		return s.readLocal(ctx), 0
	}
}

// apply installs items unless another identity change happened meanwhile.
func (s *FavoritesService) apply(ctx context.Context, gen uint64, items []domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.loading = false
	s.items = items
	s.mirror(ctx)
	return true
}

// AddToFavorites adds p and reports whether the list changed. A product
// already present is a no-op with no writes.
func (s *FavoritesService) AddToFavorites(ctx context.Context, p domain.Product) bool {
	if p.ID == "" {
		return false
	}

	s.mu.Lock()
	if domain.ContainsProduct(s.items, p.ID) {
		s.mu.Unlock()
		return false
	}
	next := make([]domain.Product, 0, len(s.items)+1)
	next = append(next, s.items...)
	s.items = append(next, p)
	s.mirror(ctx)
	push := s.pushLocked()
	s.mu.Unlock()
	push()

	s.notify.Success("Added to favorites", p.Name)
	return true
}

// RemoveFromFavorites removes the product and reports whether the list
// changed. An absent id is a no-op with no writes.
func (s *FavoritesService) RemoveFromFavorites(ctx context.Context, productID string) bool {
	s.mu.Lock()
	var removed *domain.Product
	next := make([]domain.Product, 0, len(s.items))
	for i := range s.items {
		if s.items[i].ID == productID {
			removed = &s.items[i]
			continue
		}
		next = append(next, s.items[i])
	}
	if removed == nil {
		s.mu.Unlock()
		return false
	}
	name := removed.Name
	s.items = next
	s.mirror(ctx)
	push := s.pushLocked()
	s.mu.Unlock()
	push()

	s.notify.Info("Removed from favorites", name)
	return true
}

// IsFavorite is a membership check against the in-memory list.
func (s *FavoritesService) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ContainsProduct(s.items, productID)
}

func (s *FavoritesService) List() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.items))
	copy(out, s.items)
	return out
}

func (s *FavoritesService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// pushLocked prepares a write of the full list to the signed-in user's
// remote record and returns the func that queues it, to be called after
// s.mu is released. Failures are logged by the queue and never roll back
// the local change. A job overtaken by a newer push is skipped.
func (s *FavoritesService) pushLocked() func() {
	if s.userID == "" || s.loading {
		return func() {}
	}
	userID := s.userID
	products := domain.FavoritesRecord(s.items)
	stamp := s.now().UTC().Format(time.RFC3339Nano)
	s.pushSeq++
	seq := s.pushSeq

	job := func(ctx context.Context) error {
		s.mu.Lock()
		stale := seq <= s.pushedSeq
		if !stale {
			s.pushedSeq = seq
		}
		s.mu.Unlock()
		if stale {
			return nil
		}

		err := s.store.UpdateDocument(ctx, FavoritesCollection, userID, map[string]any{
			"products":  products,
			"updatedAt": stamp,
		})
		if err != nil {
			metrics.FavoritesRemoteWritesTotal.WithLabelValues("push", "error").Inc()
			return fmt.Errorf("push favorites for %s: %w", userID, err)
		}
		metrics.FavoritesRemoteWritesTotal.WithLabelValues("push", "ok").Inc()
		return nil
	}
	return func() { s.writes.Enqueue(userID, job) }
}

func (s *FavoritesService) mirror(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []domain.Product{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.Error().Err(err).Str("session", s.scope).Msg("encode favorites")
		return
	}
	// The mirror must land even if the caller has gone away.
	if err := s.cache.Set(context.WithoutCancel(ctx), s.scope, FavoritesCacheKey, raw); err != nil {
		metrics.LocalCacheErrorsTotal.WithLabelValues("write").Inc()
		s.logger.Warn().Err(err).Str("session", s.scope).Msg("write favorites to local cache")
	}
}

func (s *FavoritesService) readLocal(ctx context.Context) []domain.Product {
	raw, ok, err := s.cache.Get(ctx, s.scope, FavoritesCacheKey)
	if err != nil {
		metrics.LocalCacheErrorsTotal.WithLabelValues("read").Inc()
		s.logger.Warn().Err(err).Str("session", s.scope).Msg("read favorites from local cache")
		return []domain.Product{}
	}
	if !ok {
		return []domain.Product{}
	}
	var items []domain.Product
	if err := json.Unmarshal(raw, &items); err != nil {
		metrics.LocalCacheErrorsTotal.WithLabelValues("decode").Inc()
		s.logger.Warn().Err(err).Str("session", s.scope).Msg("corrupt favorites in local cache, starting empty")
		return []domain.Product{}
	}
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if p.ID != "" && !domain.ContainsProduct(out, p.ID) {
			out = append(out, p)
		}
	}
	return out
}
