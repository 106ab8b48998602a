package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

type PromotionService struct {
	repo   ports.PromotionRepository
	now    func() time.Time
	logger zerolog.Logger
}

func NewPromotionService(repo ports.PromotionRepository, logger zerolog.Logger) *PromotionService {
	return &PromotionService{repo: repo, now: time.Now, logger: logger}
}

func (s *PromotionService) List(ctx context.Context) ([]domain.Promotion, error) {
	return s.repo.List(ctx)
}

func (s *PromotionService) Get(ctx context.Context, id string) (*domain.Promotion, error) {
	return s.repo.Get(ctx, id)
}

// Create assigns a fresh id and stores the promotion.
func (s *PromotionService) Create(ctx context.Context, p domain.Promotion) (*domain.Promotion, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = uuid.NewString()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("promotion_id", p.ID).Str("title", p.Title).Msg("promotion created")
	return &p, nil
}

// Update replaces every field of an existing promotion.
func (s *PromotionService) Update(ctx context.Context, id string, p domain.Promotion) (*domain.Promotion, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PromotionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Active returns the promotions whose window includes today.
func (s *PromotionService) Active(ctx context.Context) ([]domain.Promotion, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	out := make([]domain.Promotion, 0, len(all))
	for _, p := range all {
		if p.ActiveAt(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PromotionService) ActiveFor(ctx context.Context, p domain.Product) (*domain.Promotion, float64, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return nil, p.Price, err
	}
	var best *domain.Promotion
	for i := range active {
		if !active[i].Covers(p.ID) {
			continue
		}
		if best == nil || active[i].DiscountPercentage > best.DiscountPercentage {
			best = &active[i]
		}
	}
	if best == nil {
		return nil, p.Price, nil
	}
	return best, best.Apply(p.Price), nil
}
