package handler

import (
	"strings"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

// --- Request → Domain ---

func toProduct(req productRequest) domain.Product {
	return domain.Product{
		Name:          strings.TrimSpace(req.Name),
		Brand:         strings.TrimSpace(req.Brand),
		Series:        req.Series,
		Year:          req.Year,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Image:         req.Image,
		Description:   req.Description,
		Condition:     req.Condition,
		Category:      req.Category,
		Color:         req.Color,
		InStock:       req.InStock,
		Stock:         req.Stock,
		Featured:      req.Featured,
		Rarity:        domain.Rarity(req.Rarity),
	}
}

func toProductPatch(req productPatchRequest) domain.ProductPatch {
	patch := domain.ProductPatch{
		Name:          trimmed(req.Name),
		Brand:         trimmed(req.Brand),
		Series:        req.Series,
		Year:          req.Year,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Image:         req.Image,
		Description:   req.Description,
		Condition:     req.Condition,
		Category:      req.Category,
		Color:         req.Color,
		InStock:       req.InStock,
		Stock:         req.Stock,
		Featured:      req.Featured,
	}
	if req.Rarity != nil {
		r := domain.Rarity(*req.Rarity)
		patch.Rarity = &r
	}
	return patch
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func toPromotion(req promotionRequest) domain.Promotion {
	return domain.Promotion{
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		DiscountPercentage: req.DiscountPercentage,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		ProductIDs:         req.ProductIDs,
	}
}

// --- Domain → HTTP response ---

func toProductResponse(p domain.Product, promo *domain.Promotion, price float64) productResponse {
	resp := productResponse{Product: p, FinalPrice: p.Price}
	if promo != nil {
		resp.FinalPrice = price
		resp.Promotion = &promotionResponse{
			ID:                 promo.ID,
			Title:              promo.Title,
			DiscountPercentage: promo.DiscountPercentage,
			EndDate:            promo.EndDate,
		}
	}
	return resp
}

func toCartResponse(items []domain.CartItem) cartResponse {
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartResponse{
		Items: items,
		Count: domain.CartCount(items),
		Total: domain.CartTotal(items),
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
