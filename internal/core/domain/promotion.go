package domain

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// DateLayout is the calendar-day format used by promotion windows.
const DateLayout = "2006-01-02"

// Promotion is a percentage discount over a set of products for a window of
// calendar days (both ends inclusive).
type Promotion struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	DiscountPercentage float64  `json:"discountPercentage"`
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate"`
	ProductIDs         []string `json:"productIds"`
}

// Validate checks the discount range and the date window.
func (p Promotion) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidPromotion)
	}
	if p.DiscountPercentage <= 0 || p.DiscountPercentage > 100 {
		return fmt.Errorf("%w: discount must be in (0, 100]", ErrInvalidPromotion)
	}
	start, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return fmt.Errorf("%w: bad start date", ErrInvalidPromotion)
	}
	end, err := time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return fmt.Errorf("%w: bad end date", ErrInvalidPromotion)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidPromotion)
	}
	return nil
}

// ActiveAt reports whether t falls inside the promotion window.
func (p Promotion) ActiveAt(t time.Time) bool {
	start, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return false
	}
	end, err := time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return false
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

// Covers reports whether the promotion applies to productID. An empty
// product list covers nothing.
func (p Promotion) Covers(productID string) bool {
	return slices.Contains(p.ProductIDs, productID)
}

// Apply returns price discounted by the promotion, rounded to cents.
func (p Promotion) Apply(price float64) float64 {
	discounted := price * (1 - p.DiscountPercentage/100)
	return math.Round(discounted*100) / 100
}

// PromotionFromRecord decodes a promotions document.
func PromotionFromRecord(id string, data map[string]any) Promotion {
	p := Promotion{
		ID:          id,
		Title:       asString(data["title"]),
		Description: asString(data["description"]),
		StartDate:   asString(data["startDate"]),
		EndDate:     asString(data["endDate"]),
	}
	if v, ok := toNumber(data["discountPercentage"]); ok {
		p.DiscountPercentage = v
	}
	switch ids := data["productIds"].(type) {
	case []string:
		p.ProductIDs = append(p.ProductIDs, ids...)
	case []any:
		for _, v := range ids {
			if s, ok := v.(string); ok {
				p.ProductIDs = append(p.ProductIDs, s)
			}
		}
	}
	return p
}

// Record encodes the promotion without its id.
func (p Promotion) Record() map[string]any {
	ids := p.ProductIDs
	if ids == nil {
		ids = []string{}
	}
	return map[string]any{
		"title":              p.Title,
		"description":        p.Description,
		"discountPercentage": p.DiscountPercentage,
		"startDate":          p.StartDate,
		"endDate":            p.EndDate,
		"productIds":         ids,
	}
}
