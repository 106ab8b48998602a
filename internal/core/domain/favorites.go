package domain

// FavoritesFromRecord decodes the "products" array of a favorites document.
// Entries without an id and repeated ids are dropped.
func FavoritesFromRecord(v any) []Product {
	raw, _ := v.([]any)
	out := make([]Product, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, entry := range raw {
		data, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		p := ProductFromRecord("", data)
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// FavoritesRecord encodes a favorites list for the document store.
func FavoritesRecord(products []Product) []any {
	out := make([]any, len(products))
	for i, p := range products {
		out[i] = p.Record()
	}
	return out
}

// ContainsProduct reports whether the list holds a product with id.
func ContainsProduct(products []Product, id string) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}
