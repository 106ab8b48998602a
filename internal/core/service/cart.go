package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
	"github.com/diecastgarage/storefront/internal/pkg/metrics"
)

// CartCacheKey is the local cache entry owned by the cart.
const CartCacheKey = "diecast-cart"

// CartService is the per-session cart. It has no remote component: every
// mutation rewrites the whole list to the local cache.
type CartService struct {
	mu     sync.Mutex
	scope  string
	cache  ports.LocalCache
	items  []domain.CartItem
	logger zerolog.Logger
}

func NewCartService(scope string, cache ports.LocalCache, logger zerolog.Logger) *CartService {
	return &CartService{scope: scope, cache: cache, logger: logger}
}

// Restore loads the cart from the local cache. A missing or unreadable
// entry leaves the cart empty.
func (s *CartService) Restore(ctx context.Context) {
	raw, ok, err := s.cache.Get(ctx, s.scope, CartCacheKey)
	if err != nil {
		metrics.LocalCacheErrorsTotal.WithLabelValues("read").Inc()
		s.logger.Warn().Err(err).Str("session", s.scope).Msg("read cart from local cache")
		return
	}
	if !ok {
		return
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		metrics.LocalCacheErrorsTotal.WithLabelValues("decode").Inc()
		s.logger.Warn().Err(err).Str("session", s.scope).Msg("corrupt cart in local cache, starting empty")
		return
	}

	s.mu.Lock()
	s.items = domain.SanitizeCart(items)
	s.mu.Unlock()
}

func (s *CartService) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// CartCount is derived from the items on every call.
func (s *CartService) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartCount(s.items)
}

func (s *CartService) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartTotal(s.items)
}

func (s *CartService) AddToCart(ctx context.Context, p domain.Product) []domain.CartItem {
	return s.apply(ctx, "add", func(items []domain.CartItem) []domain.CartItem {
		return domain.AddToCart(items, p)
	})
}

// UpdateQuantity with quantity <= 0 removes the item.
func (s *CartService) UpdateQuantity(ctx context.Context, id string, quantity int) []domain.CartItem {
	return s.apply(ctx, "update", func(items []domain.CartItem) []domain.CartItem {
		return domain.SetQuantity(items, id, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, id string) []domain.CartItem {
	return s.apply(ctx, "remove", func(items []domain.CartItem) []domain.CartItem {
		return domain.RemoveFromCart(items, id)
	})
}

func (s *CartService) Clear(ctx context.Context) {
	s.apply(ctx, "clear", func([]domain.CartItem) []domain.CartItem {
		return []domain.CartItem{}
	})
}

// apply runs a reducer and persists its result under the same lock, so the
// cached list always equals the in-memory one. The write is detached from
// ctx cancellation.
func (s *CartService) apply(ctx context.Context, op string, reduce func([]domain.CartItem) []domain.CartItem) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = reduce(s.items)
	metrics.CartMutationsTotal.WithLabelValues(op).Inc()
	s.persist(ctx)
	return cloneItems(s.items)
}

func (s *CartService) persist(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.Error().Err(err).Str("session", s.scope).Msg("encode cart")
		return
	}
	if err := s.cache.Set(context.WithoutCancel(ctx), s.scope, CartCacheKey, raw); err != nil {
		metrics.LocalCacheErrorsTotal.WithLabelValues("write").Inc()
		s.logger.Warn().Err(err).Str("session", s.scope).Msg("write cart to local cache")
	}
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
