package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_UsesJSONNames(t *testing.T) {
	v := NewValidator()
	negative := -1.0

	err := v.Validate(&productRequest{Brand: "Hot Wheels", Price: 0, OriginalPrice: &negative})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "price must be greater than 0")
	assert.Contains(t, err.Error(), "originalPrice must be greater than 0")
}

func TestValidator_Rarity(t *testing.T) {
	v := NewValidator()
	base := productRequest{Name: "Camaro", Brand: "Hot Wheels", Price: 9}

	for _, r := range []string{"", "common", "treasure_hunt"} {
		req := base
		req.Rarity = r
		assert.NoError(t, v.Validate(&req), r)
	}

	req := base
	req.Rarity = "legendary"
	err := v.Validate(&req)
	require.Error(t, err)
	assert.Equal(t, "rarity must be one of: "+rarityTiers, err.Error())
}

func TestValidator_PromotionDates(t *testing.T) {
	err := NewValidator().Validate(&promotionRequest{
		Title:              "Sale",
		DiscountPercentage: 150,
		StartDate:          "01/06/2024",
		EndDate:            "2024-06-30",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "discountPercentage must be at most 100")
	assert.Contains(t, err.Error(), "startDate must be a YYYY-MM-DD date")
}
