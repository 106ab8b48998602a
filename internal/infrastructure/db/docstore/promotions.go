package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

const PromotionsCollection = "promotions"

type PromotionRepository struct {
	store ports.DocumentStore
}

func NewPromotionRepository(store ports.DocumentStore) *PromotionRepository {
	return &PromotionRepository{store: store}
}

// List returns promotions by start date, latest first.
func (r *PromotionRepository) List(ctx context.Context) ([]domain.Promotion, error) {
	docs, err := r.store.QueryCollection(ctx, PromotionsCollection, ports.Query{OrderBy: "startDate", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	out := make([]domain.Promotion, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.PromotionFromRecord(d.ID, d.Data))
	}
	return out, nil
}

func (r *PromotionRepository) Get(ctx context.Context, id string) (*domain.Promotion, error) {
	doc, err := r.store.GetDocument(ctx, PromotionsCollection, id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil, domain.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	p := domain.PromotionFromRecord(doc.ID, doc.Data)
	return &p, nil
}

func (r *PromotionRepository) Save(ctx context.Context, p domain.Promotion) error {
	if err := r.store.SetDocument(ctx, PromotionsCollection, p.ID, p.Record()); err != nil {
		return fmt.Errorf("save promotion: %w", err)
	}
	return nil
}

func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteDocument(ctx, PromotionsCollection, id); err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	return nil
}

var _ ports.PromotionRepository = (*PromotionRepository)(nil)
