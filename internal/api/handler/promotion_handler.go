package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

type PromotionHandler struct {
	service ports.PromotionService
}

func NewPromotionHandler(service ports.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// Active handles GET /v1/promotions.
//
// @Summary      Promotions running today
// @Tags         promotions
// @Produce      json
// @Success      200  {object}  promotionListResponse
// @Router       /v1/promotions [get]
func (h *PromotionHandler) Active(c echo.Context) error {
	items, err := h.service.Active(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, promotionListResponse{Items: nonNil(items)})
}

// List handles GET /v1/admin/promotions.
//
// @Summary      All promotions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  promotionListResponse
// @Router       /v1/admin/promotions [get]
func (h *PromotionHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, promotionListResponse{Items: nonNil(items)})
}

// Create handles POST /v1/admin/promotions.
//
// @Summary      Create a promotion
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      promotionRequest  true  "Promotion"
// @Success      201   {object}  domain.Promotion
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/promotions [post]
func (h *PromotionHandler) Create(c echo.Context) error {
	var req promotionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	p, err := h.service.Create(c.Request().Context(), toPromotion(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update handles PUT /v1/admin/promotions/:id.
//
// @Summary      Replace a promotion
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Promotion id"
// @Param        body  body      promotionRequest  true  "Promotion"
// @Success      200   {object}  domain.Promotion
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/promotions/{id} [put]
func (h *PromotionHandler) Update(c echo.Context) error {
	var req promotionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), toPromotion(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/admin/promotions/:id.
//
// @Summary      Delete a promotion
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Promotion id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/promotions/{id} [delete]
func (h *PromotionHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func nonNil(items []domain.Promotion) []domain.Promotion {
	if items == nil {
		return []domain.Promotion{}
	}
	return items
}
