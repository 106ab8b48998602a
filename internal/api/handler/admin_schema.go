package handler

import "github.com/diecastgarage/storefront/internal/core/domain"

type promotionRequest struct {
	Title              string   `json:"title"              validate:"required"`
	Description        string   `json:"description"`
	DiscountPercentage float64  `json:"discountPercentage" validate:"gt=0,lte=100"`
	StartDate          string   `json:"startDate"          validate:"required,datetime=2006-01-02"`
	EndDate            string   `json:"endDate"            validate:"required,datetime=2006-01-02"`
	ProductIDs         []string `json:"productIds"`
}

type promotionListResponse struct {
	Items []domain.Promotion `json:"items"`
}

type userListResponse struct {
	Items []domain.User `json:"items"`
}

type uploadResponse struct {
	URL string `json:"url"`
}
