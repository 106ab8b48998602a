package domain

// CartItem is a product copy plus a quantity of at least one. It serializes
// as the flattened product record with an extra "quantity" field.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// AddToCart increments the quantity of the product when present, otherwise
// appends it with quantity 1. The input slice is not modified.
func AddToCart(items []CartItem, p Product) []CartItem {
	out := make([]CartItem, 0, len(items)+1)
	found := false
	for _, it := range items {
		if it.ID == p.ID {
			it.Quantity++
			found = true
		}
		out = append(out, it)
	}
	if !found {
		out = append(out, CartItem{Product: p, Quantity: 1})
	}
	return out
}

// SetQuantity replaces the stored quantity; q <= 0 removes the item.
func SetQuantity(items []CartItem, id string, q int) []CartItem {
	if q <= 0 {
		return RemoveFromCart(items, id)
	}
	out := make([]CartItem, len(items))
	for i, it := range items {
		if it.ID == id {
			it.Quantity = q
		}
		out[i] = it
	}
	return out
}

// RemoveFromCart filters the item with the given product id out.
func RemoveFromCart(items []CartItem, id string) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// CartCount is the sum of quantities.
func CartCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// CartTotal is the sum of price times quantity.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// SanitizeCart drops entries a corrupt or hand-edited cache could contain:
// items without an id or with a non-positive quantity.
func SanitizeCart(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		if it.ID == "" || it.Quantity < 1 {
			continue
		}
		out = append(out, it)
	}
	return out
}
