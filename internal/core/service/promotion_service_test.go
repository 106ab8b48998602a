package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/infrastructure/db/docstore"
	"github.com/diecastgarage/storefront/internal/infrastructure/db/memory"
)

func newTestPromotionService(today string) *PromotionService {
	svc := NewPromotionService(docstore.NewPromotionRepository(memory.NewDocumentStore()), zerolog.Nop())
	day, err := time.Parse(domain.DateLayout, today)
	if err != nil {
		panic(err)
	}
	svc.now = func() time.Time { return day.Add(15 * time.Hour) }
	return svc
}

func summerSale(discount float64, productIDs ...string) domain.Promotion {
	return domain.Promotion{
		Title:              "Summer sale",
		DiscountPercentage: discount,
		StartDate:          "2024-06-01",
		EndDate:            "2024-06-30",
		ProductIDs:         productIDs,
	}
}

func TestPromotionService_CreateAssignsID(t *testing.T) {
	svc := newTestPromotionService("2024-06-10")
	ctx := context.Background()

	created, err := svc.Create(ctx, summerSale(20, "p1"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestPromotionService_CreateRejectsInvalid(t *testing.T) {
	svc := newTestPromotionService("2024-06-10")

	cases := map[string]domain.Promotion{
		"zero discount":  summerSale(0),
		"over 100":       summerSale(101),
		"reversed dates": {Title: "x", DiscountPercentage: 10, StartDate: "2024-07-01", EndDate: "2024-06-01"},
		"missing title":  {DiscountPercentage: 10, StartDate: "2024-06-01", EndDate: "2024-06-02"},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), p)
			assert.ErrorIs(t, err, domain.ErrInvalidPromotion)
		})
	}
}

func TestPromotionService_UpdateAndDeleteMissing(t *testing.T) {
	svc := newTestPromotionService("2024-06-10")
	ctx := context.Background()

	_, err := svc.Update(ctx, "nope", summerSale(10))
	assert.ErrorIs(t, err, domain.ErrPromotionNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), domain.ErrPromotionNotFound)
}

func TestPromotionService_ActiveWindowIsInclusive(t *testing.T) {
	ctx := context.Background()
	for day, want := range map[string]int{
		"2024-05-31": 0,
		"2024-06-01": 1,
		"2024-06-30": 1,
		"2024-07-01": 0,
	} {
		svc := newTestPromotionService(day)
		_, err := svc.Create(ctx, summerSale(10, "p1"))
		require.NoError(t, err)

		active, err := svc.Active(ctx)
		require.NoError(t, err)
		assert.Len(t, active, want, day)
	}
}

func TestPromotionService_ActiveForPicksLargestDiscount(t *testing.T) {
	svc := newTestPromotionService("2024-06-10")
	ctx := context.Background()
	_, err := svc.Create(ctx, summerSale(10, "p1", "p2"))
	require.NoError(t, err)
	best, err := svc.Create(ctx, summerSale(25, "p1"))
	require.NoError(t, err)

	promo, price, err := svc.ActiveFor(ctx, domain.Product{ID: "p1", Price: 24})
	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, best.ID, promo.ID)
	assert.Equal(t, 18.0, price)

	promo, price, err = svc.ActiveFor(ctx, domain.Product{ID: "p9", Price: 5})
	require.NoError(t, err)
	assert.Nil(t, promo)
	assert.Equal(t, 5.0, price)
}
