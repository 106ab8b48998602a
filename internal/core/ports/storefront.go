package ports

import (
	"context"
	"io"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

// Notifier reports the outcome of an operation to the user.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
	Warning(title, message string)
	Info(title, message string)
}

// NotificationQueue is the per-session notification component.
type NotificationQueue interface {
	Notifier
	AddNotification(in domain.NotificationInput) (domain.Notification, bool)
	RemoveNotification(id string)
	List() []domain.Notification
}

// ProductCatalog is the product synchronization component.
type ProductCatalog interface {
	Products() []domain.Product
	Search(filters domain.SearchFilters) []domain.Product
	Product(id string) (domain.Product, bool)
	Loading() bool
	Err() error

	AddProduct(ctx context.Context, p domain.Product, notify Notifier) (string, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch, notify Notifier) error
	DeleteProduct(ctx context.Context, id string, notify Notifier) error
	RefreshProducts(ctx context.Context, notify Notifier) error
}

// CartStore is the per-session cart component.
type CartStore interface {
	Items() []domain.CartItem
	CartCount() int
	Total() float64
	AddToCart(ctx context.Context, p domain.Product) []domain.CartItem
	UpdateQuantity(ctx context.Context, id string, quantity int) []domain.CartItem
	RemoveItem(ctx context.Context, id string) []domain.CartItem
	Clear(ctx context.Context)
}

// FavoritesStore is the per-session favorites synchronization component.
type FavoritesStore interface {
	List() []domain.Product
	Count() int
	IsFavorite(productID string) bool
	AddToFavorites(ctx context.Context, p domain.Product) bool
	RemoveFromFavorites(ctx context.Context, productID string) bool
}

// Session is one browser-equivalent scope: its own cart, favorites,
// notifications and local cache namespace.
type Session interface {
	ID() string
	Identity() *domain.User
	// SetIdentity is the change-of-identity callback; nil means logged out.
	SetIdentity(ctx context.Context, user *domain.User)
	Cart() CartStore
	Favorites() FavoritesStore
	Notifications() NotificationQueue
}

// SessionProvider resolves (or creates) a session by id.
type SessionProvider interface {
	Session(ctx context.Context, id string) Session
}

// PromotionRepository persists promotions.
type PromotionRepository interface {
	List(ctx context.Context) ([]domain.Promotion, error)
	Get(ctx context.Context, id string) (*domain.Promotion, error)
	Save(ctx context.Context, p domain.Promotion) error
	Delete(ctx context.Context, id string) error
}

// PromotionService manages promotions and prices products against them.
type PromotionService interface {
	List(ctx context.Context) ([]domain.Promotion, error)
	Get(ctx context.Context, id string) (*domain.Promotion, error)
	Create(ctx context.Context, p domain.Promotion) (*domain.Promotion, error)
	Update(ctx context.Context, id string, p domain.Promotion) (*domain.Promotion, error)
	Delete(ctx context.Context, id string) error
	Active(ctx context.Context) ([]domain.Promotion, error)
	// ActiveFor returns the largest active discount covering p and the
	// discounted price; nil when no promotion applies.
	ActiveFor(ctx context.Context, p domain.Product) (*domain.Promotion, float64, error)
}

// MediaService uploads product images.
type MediaService interface {
	UploadProductImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// WriteQueue runs best-effort remote writes off the caller's path. Jobs
// enqueued under the same key run one at a time in submission order.
type WriteQueue interface {
	Enqueue(key string, job func(ctx context.Context) error)
}
