package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

// ProductHandler serves the catalog and its back-office writes.
type ProductHandler struct {
	catalog    ports.ProductCatalog
	promotions ports.PromotionService
	log        zerolog.Logger
}

func NewProductHandler(catalog ports.ProductCatalog, promotions ports.PromotionService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, promotions: promotions, log: log}
}

// List handles GET /v1/products.
//
// @Summary      List products
// @Description  Newest first. Filters are combined with AND.
// @Tags         products
// @Produce      json
// @Param        brand      query     string  false  "Brand"
// @Param        category   query     string  false  "Category"
// @Param        condition  query     string  false  "Condition"
// @Param        rarity     query     string  false  "Rarity"
// @Param        series     query     string  false  "Series"
// @Param        minPrice   query     number  false  "Minimum price"
// @Param        maxPrice   query     number  false  "Maximum price"
// @Param        inStock    query     bool    false  "Only in-stock items"
// @Param        featured   query     bool    false  "Only featured items"
// @Success      200        {object}  productListResponse
// @Failure      400        {object}  errorResponse
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	products := h.catalog.Search(filters)
	return c.JSON(http.StatusOK, productListResponse{
		Products: products,
		Count:    len(products),
		Loading:  h.catalog.Loading(),
		Error:    errString(h.catalog.Err()),
	})
}

// Get handles GET /v1/products/:id and prices the product against the
// active promotions.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, ok := h.catalog.Product(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
	}

	promo, price, err := h.promotions.ActiveFor(c.Request().Context(), p)
	if err != nil {
		// Fall back to the list price.
		h.log.Warn().Err(err).Str("product_id", p.ID).Msg("promotion lookup failed")
		promo = nil
	}
	return c.JSON(http.StatusOK, toProductResponse(p, promo, price))
}

// Status handles GET /v1/products/status.
//
// @Summary      Catalog synchronization status
// @Tags         products
// @Produce      json
// @Success      200  {object}  catalogStatusResponse
// @Router       /v1/products/status [get]
func (h *ProductHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, catalogStatusResponse{
		Loading: h.catalog.Loading(),
		Count:   len(h.catalog.Products()),
		Error:   errString(h.catalog.Err()),
	})
}

// Create handles POST /v1/admin/products.
//
// @Summary      Add a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	id, err := h.catalog.AddProduct(c.Request().Context(), toProduct(req), ctxNotifier(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// Update handles PATCH /v1/admin/products/:id.
//
// @Summary      Update a product
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string               true  "Product id"
// @Param        body  body  productPatchRequest  true  "Fields to change"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/products/{id} [patch]
func (h *ProductHandler) Update(c echo.Context) error {
	var req productPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	patch := toProductPatch(req)
	if patch.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	if err := h.catalog.UpdateProduct(c.Request().Context(), c.Param("id"), patch, ctxNotifier(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/admin/products/:id.
//
// @Summary      Delete a product
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Product id"
// @Success      204
// @Router       /v1/admin/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.catalog.DeleteProduct(c.Request().Context(), c.Param("id"), ctxNotifier(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Refresh handles POST /v1/admin/products/refresh: a one-shot re-read that
// replaces the in-memory list outside the subscription.
//
// @Summary      Refresh the catalog
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  refreshResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/admin/products/refresh [post]
func (h *ProductHandler) Refresh(c echo.Context) error {
	if err := h.catalog.RefreshProducts(c.Request().Context(), ctxNotifier(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, refreshResponse{
		Count:       len(h.catalog.Products()),
		RefreshedAt: time.Now().UTC(),
	})
}

func parseFilters(c echo.Context) (domain.SearchFilters, error) {
	f := domain.SearchFilters{
		Brand:     c.QueryParam("brand"),
		Category:  c.QueryParam("category"),
		Condition: c.QueryParam("condition"),
		Rarity:    c.QueryParam("rarity"),
		Series:    c.QueryParam("series"),
	}

	var err error
	if f.MinPrice, err = floatParam(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatParam(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.InStock, err = boolParam(c, "inStock"); err != nil {
		return f, err
	}
	if f.Featured, err = boolParam(c, "featured"); err != nil {
		return f, err
	}
	return f, nil
}

func floatParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return &v, nil
}

func boolParam(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a boolean")
	}
	return &v, nil
}
