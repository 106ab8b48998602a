package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Rarity is the merchandising rarity tier of a model.
type Rarity string

const (
	RarityCommon       Rarity = "common"
	RarityRare         Rarity = "rare"
	RaritySuperRare    Rarity = "super_rare"
	RarityTreasureHunt Rarity = "treasure_hunt"
)

// Valid reports whether r is empty or one of the known tiers.
func (r Rarity) Valid() bool {
	switch r {
	case "", RarityCommon, RarityRare, RaritySuperRare, RarityTreasureHunt:
		return true
	}
	return false
}

// Product is a die-cast model listed in the catalog. Values are denormalized
// copies when embedded in carts and favorites.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Series        string    `json:"series"`
	Year          int       `json:"year"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Image         string    `json:"image"`
	Description   string    `json:"description"`
	Condition     string    `json:"condition"`
	Category      string    `json:"category,omitempty"`
	Color         string    `json:"color"`
	InStock       bool      `json:"inStock"`
	Stock         int       `json:"stock"`
	Featured      bool      `json:"featured,omitempty"`
	Rarity        Rarity    `json:"rarity,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductFromRecord builds a Product from a raw document. Numeric fields are
// coerced because the store may hold them as strings: year, price and stock
// fall back to 0, originalPrice stays nil when absent, zero or unparsable.
func ProductFromRecord(id string, data map[string]any) Product {
	p := Product{
		ID:          id,
		Name:        asString(data["name"]),
		Brand:       asString(data["brand"]),
		Series:      asString(data["series"]),
		Image:       asString(data["image"]),
		Description: asString(data["description"]),
		Condition:   asString(data["condition"]),
		Category:    asString(data["category"]),
		Color:       asString(data["color"]),
		InStock:     asBool(data["inStock"]),
		Featured:    asBool(data["featured"]),
		Rarity:      Rarity(asString(data["rarity"])),
		CreatedAt:   asTime(data["createdAt"]),
		UpdatedAt:   asTime(data["updatedAt"]),
	}
	if p.ID == "" {
		p.ID = asString(data["id"])
	}

	if v, ok := toNumber(data["year"]); ok {
		p.Year = int(v)
	}
	if v, ok := toNumber(data["price"]); ok {
		p.Price = v
	}
	if v, ok := toNumber(data["stock"]); ok {
		p.Stock = int(v)
	}
	if v, ok := toNumber(data["originalPrice"]); ok && v != 0 {
		p.OriginalPrice = &v
	}
	return p
}

// Record returns the product as a document with unset optional fields
// stripped; the remote store rejects undefined values.
func (p Product) Record() map[string]any {
	rec := map[string]any{
		"name":        p.Name,
		"brand":       p.Brand,
		"series":      p.Series,
		"year":        p.Year,
		"price":       p.Price,
		"image":       p.Image,
		"description": p.Description,
		"condition":   p.Condition,
		"color":       p.Color,
		"inStock":     p.InStock,
		"stock":       p.Stock,
		"featured":    p.Featured,
	}
	if p.ID != "" {
		rec["id"] = p.ID
	}
	if p.OriginalPrice != nil {
		rec["originalPrice"] = *p.OriginalPrice
	}
	if p.Category != "" {
		rec["category"] = p.Category
	}
	if p.Rarity != "" {
		rec["rarity"] = string(p.Rarity)
	}
	if !p.CreatedAt.IsZero() {
		rec["createdAt"] = p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		rec["updatedAt"] = p.UpdatedAt
	}
	return rec
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name          *string  `json:"name,omitempty"`
	Brand         *string  `json:"brand,omitempty"`
	Series        *string  `json:"series,omitempty"`
	Year          *int     `json:"year,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Image         *string  `json:"image,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Condition     *string  `json:"condition,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Color         *string  `json:"color,omitempty"`
	InStock       *bool    `json:"inStock,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	Featured      *bool    `json:"featured,omitempty"`
	Rarity        *Rarity  `json:"rarity,omitempty"`
}

// Record returns only the fields present in the patch.
func (pp ProductPatch) Record() map[string]any {
	rec := map[string]any{}
	setIf(rec, "name", pp.Name)
	setIf(rec, "brand", pp.Brand)
	setIf(rec, "series", pp.Series)
	setIf(rec, "year", pp.Year)
	setIf(rec, "price", pp.Price)
	setIf(rec, "originalPrice", pp.OriginalPrice)
	setIf(rec, "image", pp.Image)
	setIf(rec, "description", pp.Description)
	setIf(rec, "condition", pp.Condition)
	setIf(rec, "category", pp.Category)
	setIf(rec, "color", pp.Color)
	setIf(rec, "inStock", pp.InStock)
	setIf(rec, "stock", pp.Stock)
	setIf(rec, "featured", pp.Featured)
	if pp.Rarity != nil {
		rec["rarity"] = string(*pp.Rarity)
	}
	return rec
}

// Empty reports whether the patch carries no field.
func (pp ProductPatch) Empty() bool {
	return len(pp.Record()) == 0
}

// SearchFilters narrows the catalog listing. Zero values match everything.
type SearchFilters struct {
	Brand     string
	Category  string
	Condition string
	Rarity    string
	Series    string
	MinPrice  *float64
	MaxPrice  *float64
	InStock   *bool
	Featured  *bool
}

// Match reports whether p satisfies every set filter.
func (f SearchFilters) Match(p Product) bool {
	if f.Brand != "" && !strings.EqualFold(f.Brand, p.Brand) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	if f.Condition != "" && !strings.EqualFold(f.Condition, p.Condition) {
		return false
	}
	if f.Rarity != "" && !strings.EqualFold(f.Rarity, string(p.Rarity)) {
		return false
	}
	if f.Series != "" && !strings.Contains(strings.ToLower(p.Series), strings.ToLower(f.Series)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	return true
}

func setIf[T any](rec map[string]any, key string, v *T) {
	if v != nil {
		rec[key] = *v
	}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	}
	return false
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case *time.Time:
		if t != nil {
			return t.UTC()
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed.UTC()
		}
	case int64:
		return time.UnixMilli(t).UTC()
	}
	return time.Time{}
}
