package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

const cartSession = "cart-session-1"

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCartHandler_AddUpdateRemove(t *testing.T) {
	env := newTestEnv(t)
	id := env.addProduct(t, domain.Product{Name: "'67 Camaro", Brand: "Hot Wheels", Price: 10})
	h := NewCartHandler(env.catalog)
	body := `{"productId":"` + id + `"}`

	env.serve(jsonRequest(http.MethodPost, "/v1/cart/items", body), cartSession, h.AddItem)
	rec := env.serve(jsonRequest(http.MethodPost, "/v1/cart/items", body), cartSession, h.AddItem)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 2, cart.Count)
	assert.Equal(t, 20.0, cart.Total)

	rec = env.serve(jsonRequest(http.MethodPatch, "/v1/cart/items/"+id, `{"quantity":5}`), cartSession, h.UpdateItem, "id", id)
	assert.Equal(t, 5, decodeCart(t, rec).Count)

	rec = env.serve(jsonRequest(http.MethodPatch, "/v1/cart/items/"+id, `{"quantity":0}`), cartSession, h.UpdateItem, "id", id)
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestCartHandler_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	id := env.addProduct(t, domain.Product{Name: "Skyline", Brand: "Matchbox", Price: 7.5})
	h := NewCartHandler(env.catalog)

	env.serve(jsonRequest(http.MethodPost, "/v1/cart/items", `{"productId":"`+id+`"}`), cartSession, h.AddItem)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/v1/cart", nil), "other-session", h.Get)
	assert.Equal(t, 0, decodeCart(t, rec).Count)
	rec = env.serve(httptest.NewRequest(http.MethodGet, "/v1/cart", nil), cartSession, h.Get)
	assert.Equal(t, 1, decodeCart(t, rec).Count)
}

func TestCartHandler_AddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	h := NewCartHandler(env.catalog)

	rec := env.serve(jsonRequest(http.MethodPost, "/v1/cart/items", `{"productId":"ghost"}`), cartSession, h.AddItem)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_AddRequiresProductID(t *testing.T) {
	env := newTestEnv(t)
	h := NewCartHandler(env.catalog)

	rec := env.serve(jsonRequest(http.MethodPost, "/v1/cart/items", `{}`), cartSession, h.AddItem)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCartHandler_Clear(t *testing.T) {
	env := newTestEnv(t)
	id := env.addProduct(t, domain.Product{Name: "Beetle", Brand: "Greenlight", Price: 4})
	h := NewCartHandler(env.catalog)
	env.serve(jsonRequest(http.MethodPost, "/v1/cart/items", `{"productId":"`+id+`"}`), cartSession, h.AddItem)

	rec := env.serve(httptest.NewRequest(http.MethodDelete, "/v1/cart", nil), cartSession, h.Clear)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.serve(httptest.NewRequest(http.MethodGet, "/v1/cart", nil), cartSession, h.Get)
	assert.Empty(t, decodeCart(t, rec).Items)
}
