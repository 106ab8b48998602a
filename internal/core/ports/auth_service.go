package ports

import (
	"context"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

// AuthService is the auth provider consumed by the storefront: account
// creation, password login issuing a bearer token, profile lookup and
// display-name edits.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateDisplayName(ctx context.Context, userID, name string) (*domain.User, error)
}

// UserAdmin covers back-office account management.
type UserAdmin interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Promote(ctx context.Context, actor *domain.User, userID string) error
	Demote(ctx context.Context, actor *domain.User, userID string) error
	Stats(ctx context.Context) (domain.UserStats, error)
}
