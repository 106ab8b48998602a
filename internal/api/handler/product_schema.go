package handler

import (
	"time"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

type productRequest struct {
	Name          string   `json:"name"          validate:"required"`
	Brand         string   `json:"brand"         validate:"required"`
	Series        string   `json:"series"`
	Year          int      `json:"year"          validate:"gte=0"`
	Price         float64  `json:"price"         validate:"gt=0"`
	OriginalPrice *float64 `json:"originalPrice" validate:"omitempty,gt=0"`
	Image         string   `json:"image"`
	Description   string   `json:"description"`
	Condition     string   `json:"condition"`
	Category      string   `json:"category"`
	Color         string   `json:"color"`
	InStock       bool     `json:"inStock"`
	Stock         int      `json:"stock"         validate:"gte=0"`
	Featured      bool     `json:"featured"`
	Rarity        string   `json:"rarity"        validate:"rarity"`
}

// productPatchRequest carries only the fields being changed; nil means
// untouched.
type productPatchRequest struct {
	Name          *string  `json:"name"          validate:"omitempty,min=1"`
	Brand         *string  `json:"brand"         validate:"omitempty,min=1"`
	Series        *string  `json:"series"`
	Year          *int     `json:"year"          validate:"omitempty,gte=0"`
	Price         *float64 `json:"price"         validate:"omitempty,gt=0"`
	OriginalPrice *float64 `json:"originalPrice" validate:"omitempty,gt=0"`
	Image         *string  `json:"image"`
	Description   *string  `json:"description"`
	Condition     *string  `json:"condition"`
	Category      *string  `json:"category"`
	Color         *string  `json:"color"`
	InStock       *bool    `json:"inStock"`
	Stock         *int     `json:"stock"         validate:"omitempty,gte=0"`
	Featured      *bool    `json:"featured"`
	Rarity        *string  `json:"rarity"        validate:"omitempty,rarity"`
}

type productListResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

type productResponse struct {
	domain.Product
	FinalPrice float64            `json:"finalPrice"`
	Promotion  *promotionResponse `json:"promotion,omitempty"`
}

type promotionResponse struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	DiscountPercentage float64 `json:"discountPercentage"`
	EndDate            string  `json:"endDate"`
}

type catalogStatusResponse struct {
	Loading bool   `json:"loading"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type refreshResponse struct {
	Count       int       `json:"count"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
}

type favoritesResponse struct {
	Items []domain.Product `json:"items"`
	Count int              `json:"count"`
}

type favoriteStatusResponse struct {
	ProductID string `json:"productId"`
	Favorite  bool   `json:"favorite"`
	Changed   bool   `json:"changed"`
}

type notificationsResponse struct {
	Items []domain.Notification `json:"items"`
}
