package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
	"github.com/diecastgarage/storefront/internal/pkg/metrics"
)

// ProductsCollection holds the catalog.
const ProductsCollection = "products"

// ErrCatalogUnavailable is reported by Err after the subscription failed.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

var productsQuery = ports.Query{OrderBy: "createdAt", Desc: true}

// CatalogService holds the process-wide product list. The list is rebuilt
// from every full snapshot the subscription delivers; writes never touch it
// directly and wait for the next snapshot instead.
type CatalogService struct {
	mu          sync.RWMutex
	products    []domain.Product
	loading     bool
	err         error
	unsubscribe func()

	store  ports.DocumentStore
	now    func() time.Time
	logger zerolog.Logger
}

func NewCatalogService(store ports.DocumentStore, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		products: []domain.Product{},
		loading:  true,
		store:    store,
		now:      time.Now,
		logger:   logger,
	}
}

// Start opens the live subscription, newest products first. Calling Start
// on a running catalog is a no-op. A failed subscription is not retried.
func (s *CatalogService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	unsub, err := s.store.Subscribe(subCtx, ProductsCollection, productsQuery, s.onSnapshot, s.onError)
	if err != nil {
		cancel()
		s.onError(err)
		return fmt.Errorf("subscribe products: %w", err)
	}

	s.mu.Lock()
	s.unsubscribe = func() {
		unsub()
		cancel()
	}
	s.mu.Unlock()
	s.logger.Info().Str("collection", ProductsCollection).Msg("product subscription started")
	return nil
}

// Stop tears the subscription down.
func (s *CatalogService) Stop() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
		s.logger.Info().Str("collection", ProductsCollection).Msg("product subscription stopped")
	}
}

func (s *CatalogService) onSnapshot(docs []ports.Document) {
	s.replace(docs, "subscription")
}

func (s *CatalogService) onError(err error) {
	metrics.CatalogSubscriptionErrorsTotal.Inc()
	s.logger.Error().Err(err).Str("collection", ProductsCollection).Msg("product subscription failed")

	s.mu.Lock()
	s.err = fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	s.loading = false
	s.mu.Unlock()
}

func (s *CatalogService) replace(docs []ports.Document, source string) {
	products := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, domain.ProductFromRecord(d.ID, d.Data))
	}

	s.mu.Lock()
	s.products = products
	s.loading = false
	s.mu.Unlock()

	metrics.CatalogSnapshotsTotal.WithLabelValues(source).Inc()
	metrics.CatalogProducts.Set(float64(len(products)))
}

// Products returns the last applied snapshot.
func (s *CatalogService) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Search filters the last applied snapshot, keeping its order.
func (s *CatalogService) Search(filters domain.SearchFilters) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if filters.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns the featured products of the last snapshot.
func (s *CatalogService) Featured() []domain.Product {
	featured := true
	return s.Search(domain.SearchFilters{Featured: &featured})
}

func (s *CatalogService) Product(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *CatalogService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *CatalogService) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// AddProduct creates a product document and returns its id.
func (s *CatalogService) AddProduct(ctx context.Context, p domain.Product, notify ports.Notifier) (string, error) {
	notify = notifierOrNop(notify)

	now := s.now().UTC()
	rec := p.Record()
	delete(rec, "id")
	rec["createdAt"] = now
	rec["updatedAt"] = now

	id, err := s.store.AddDocument(ctx, ProductsCollection, rec)
	if err != nil {
		s.writeFailed("add", "", err)
		notify.Error("Could not add product", "Check the data and try again")
		return "", fmt.Errorf("add product: %w", err)
	}
	metrics.ProductWritesTotal.WithLabelValues("add", "ok").Inc()
	s.logger.Info().Str("product_id", id).Str("name", p.Name).Msg("product added")
	notify.Success("Product added successfully", "")
	return id, nil
}

// UpdateProduct applies a partial update and stamps updatedAt.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch, notify ports.Notifier) error {
	notify = notifierOrNop(notify)

	rec := patch.Record()
	rec["updatedAt"] = s.now().UTC()

	if err := s.store.UpdateDocument(ctx, ProductsCollection, id, rec); err != nil {
		s.writeFailed("update", id, err)
		notify.Error("Could not update product", "Check the data and try again")
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	metrics.ProductWritesTotal.WithLabelValues("update", "ok").Inc()
	notify.Success("Product updated successfully", "")
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string, notify ports.Notifier) error {
	notify = notifierOrNop(notify)

	if err := s.store.DeleteDocument(ctx, ProductsCollection, id); err != nil {
		s.writeFailed("delete", id, err)
		notify.Error("Could not delete product", "Try again")
		return fmt.Errorf("delete product: %w", err)
	}
	metrics.ProductWritesTotal.WithLabelValues("delete", "ok").Inc()
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	notify.Success("Product removed successfully", "")
	return nil
}

// RefreshProducts re-reads the collection once and applies it as a snapshot.
func (s *CatalogService) RefreshProducts(ctx context.Context, notify ports.Notifier) error {
	notify = notifierOrNop(notify)

	s.mu.Lock()
	s.err = nil
	s.mu.Unlock()

	docs, err := s.store.QueryCollection(ctx, ProductsCollection, productsQuery)
	if err != nil {
		s.logger.Error().Err(err).Msg("refresh products")
		s.mu.Lock()
		s.err = fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		s.mu.Unlock()
		notify.Error("Could not refresh products", "Check your connection and try again")
		return fmt.Errorf("refresh products: %w", err)
	}
	s.replace(docs, "refresh")
	notify.Success("Products refreshed", "")
	return nil
}

// SeedIfEmpty inserts products only when the collection holds none and
// returns how many were written.
func (s *CatalogService) SeedIfEmpty(ctx context.Context, products []domain.Product) (int, error) {
	existing, err := s.store.QueryCollection(ctx, ProductsCollection, ports.Query{})
	if err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info().Int("existing", len(existing)).Msg("catalog not empty, skipping seed")
		return 0, nil
	}

	n := 0
	for _, p := range products {
		if _, err := s.AddProduct(ctx, p, nil); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *CatalogService) writeFailed(op, id string, err error) {
	metrics.ProductWritesTotal.WithLabelValues(op, "error").Inc()
	s.logger.Error().Err(err).Str("op", op).Str("product_id", id).Msg("product write failed")
}

type nopNotifier struct{}

func (nopNotifier) Success(string, string) {}
func (nopNotifier) Error(string, string)   {}
func (nopNotifier) Warning(string, string) {}
func (nopNotifier) Info(string, string)    {}

func notifierOrNop(n ports.Notifier) ports.Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
