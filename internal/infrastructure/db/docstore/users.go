// Package docstore implements the account and promotion repositories on top
// of any ports.DocumentStore.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

// UsersCollection holds one profile per user id.
const UsersCollection = "users"

type UserRepository struct {
	store ports.DocumentStore
}

func NewUserRepository(store ports.DocumentStore) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	doc, err := r.store.GetDocument(ctx, UsersCollection, id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := domain.UserFromRecord(doc.ID, doc.Data)
	return &u, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	if err := r.store.SetDocument(ctx, UsersCollection, user.ID, user.Record()); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if err := r.store.UpdateDocument(ctx, UsersCollection, id, fields); err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List returns every profile, newest first.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	docs, err := r.store.QueryCollection(ctx, UsersCollection, ports.Query{OrderBy: "createdAt", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.UserFromRecord(d.ID, d.Data))
	}
	return out, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
