package ports

import (
	"context"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

// CredentialRepository persists login secrets keyed by normalized email.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	// Create fails with domain.ErrEmailInUse when the email is taken.
	Create(ctx context.Context, cred *domain.Credential) error
}

// UserRepository persists user profiles in the users collection.
type UserRepository interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id string, fields map[string]any) error
	// List returns every profile, newest first.
	List(ctx context.Context) ([]domain.User, error)
}
