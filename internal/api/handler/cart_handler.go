package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

// CartHandler exposes the session cart. Items are copied from the catalog
// at the time they are added.
type CartHandler struct {
	catalog ports.ProductCatalog
}

func NewCartHandler(catalog ports.ProductCatalog) *CartHandler {
	return &CartHandler{catalog: catalog}
}

// Get handles GET /v1/cart.
//
// @Summary      Get the cart
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope"
// @Success      200           {object}  cartResponse
// @Router       /v1/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(s.Cart().Items()))
}

// AddItem handles POST /v1/cart/items. Adding a product already in the cart
// increments its quantity.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string              false  "Session scope"
// @Param        body          body      addCartItemRequest  true   "Product"
// @Success      200           {object}  cartResponse
// @Failure      404           {object}  errorResponse
// @Failure      422           {object}  errorResponse
// @Router       /v1/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	p, ok := h.catalog.Product(req.ProductID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}
	items := s.Cart().AddToCart(c.Request().Context(), p)
	return c.JSON(http.StatusOK, toCartResponse(items))
}

// UpdateItem handles PATCH /v1/cart/items/:id. A quantity of zero or less
// removes the item.
//
// @Summary      Set an item quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string                 false  "Session scope"
// @Param        id            path      string                 true   "Product id"
// @Param        body          body      updateCartItemRequest  true   "Quantity"
// @Success      200           {object}  cartResponse
// @Router       /v1/cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	items := s.Cart().UpdateQuantity(c.Request().Context(), c.Param("id"), req.Quantity)
	return c.JSON(http.StatusOK, toCartResponse(items))
}

// RemoveItem handles DELETE /v1/cart/items/:id.
//
// @Summary      Remove an item
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope"
// @Param        id            path      string  true   "Product id"
// @Success      200           {object}  cartResponse
// @Router       /v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	items := s.Cart().RemoveItem(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, toCartResponse(items))
}

// Clear handles DELETE /v1/cart.
//
// @Summary      Empty the cart
// @Tags         cart
// @Param        X-Session-ID  header  string  false  "Session scope"
// @Success      204
// @Router       /v1/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	s.Cart().Clear(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
