package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

// CredentialsCollection is keyed by normalized email.
const CredentialsCollection = "credentials"

// CredentialRepository stores credentials in a document store. Keying by
// email makes the uniqueness check a point read; the check-then-write is
// serialized within the process only.
type CredentialRepository struct {
	mu    sync.Mutex
	store ports.DocumentStore
}

func NewCredentialRepository(store ports.DocumentStore) *CredentialRepository {
	return &CredentialRepository{store: store}
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.store.GetDocument(ctx, CredentialsCollection, cred.Email)
	switch {
	case err == nil:
		return domain.ErrEmailInUse
	case !errors.Is(err, domain.ErrDocumentNotFound):
		return fmt.Errorf("check credential: %w", err)
	}

	if err := r.store.SetDocument(ctx, CredentialsCollection, cred.Email, map[string]any{
		"userId":       cred.UserID,
		"email":        cred.Email,
		"passwordHash": cred.PasswordHash,
		"createdAt":    cred.CreatedAt,
	}); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	doc, err := r.store.GetDocument(ctx, CredentialsCollection, email)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	userID, _ := doc.Data["userId"].(string)
	hash, _ := doc.Data["passwordHash"].(string)
	return &domain.Credential{
		UserID:       userID,
		Email:        email,
		PasswordHash: hash,
	}, nil
}

var _ ports.CredentialRepository = (*CredentialRepository)(nil)
