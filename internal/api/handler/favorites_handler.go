package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

// FavoritesHandler exposes the session favorites. Writes answer from the
// local copy immediately; the account copy is updated in the background.
type FavoritesHandler struct {
	catalog ports.ProductCatalog
}

func NewFavoritesHandler(catalog ports.ProductCatalog) *FavoritesHandler {
	return &FavoritesHandler{catalog: catalog}
}

// List handles GET /v1/favorites.
//
// @Summary      List favorites
// @Tags         favorites
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope"
// @Success      200           {object}  favoritesResponse
// @Router       /v1/favorites [get]
func (h *FavoritesHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	items := s.Favorites().List()
	if items == nil {
		items = []domain.Product{}
	}
	return c.JSON(http.StatusOK, favoritesResponse{Items: items, Count: len(items)})
}

// Status handles GET /v1/favorites/:id.
//
// @Summary      Is the product a favorite
// @Tags         favorites
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope"
// @Param        id            path      string  true   "Product id"
// @Success      200           {object}  favoriteStatusResponse
// @Router       /v1/favorites/{id} [get]
func (h *FavoritesHandler) Status(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	return c.JSON(http.StatusOK, favoriteStatusResponse{ProductID: id, Favorite: s.Favorites().IsFavorite(id)})
}

// Add handles PUT /v1/favorites/:id. Adding a product twice is a no-op.
//
// @Summary      Add a favorite
// @Tags         favorites
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope"
// @Param        id            path      string  true   "Product id"
// @Success      200           {object}  favoriteStatusResponse
// @Failure      404           {object}  errorResponse
// @Router       /v1/favorites/{id} [put]
func (h *FavoritesHandler) Add(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	p, ok := h.catalog.Product(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}

	changed := s.Favorites().AddToFavorites(c.Request().Context(), p)
	return c.JSON(http.StatusOK, favoriteStatusResponse{ProductID: p.ID, Favorite: true, Changed: changed})
}

// Remove handles DELETE /v1/favorites/:id. Removing an absent product is a
// no-op.
//
// @Summary      Remove a favorite
// @Tags         favorites
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session scope"
// @Param        id            path      string  true   "Product id"
// @Success      200           {object}  favoriteStatusResponse
// @Router       /v1/favorites/{id} [delete]
func (h *FavoritesHandler) Remove(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	changed := s.Favorites().RemoveFromFavorites(c.Request().Context(), id)
	return c.JSON(http.StatusOK, favoriteStatusResponse{ProductID: id, Favorite: false, Changed: changed})
}
