package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

const maxUploadBytes = 5 << 20

type UploadHandler struct {
	media ports.MediaService
}

func NewUploadHandler(media ports.MediaService) *UploadHandler {
	return &UploadHandler{media: media}
}

// ProductImage handles POST /v1/admin/uploads. The returned URL is meant for
// the image field of a product.
//
// @Summary      Upload a product image
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image (jpeg, png, webp or gif)"
// @Success      201   {object}  uploadResponse
// @Failure      400   {object}  errorResponse
// @Failure      413   {object}  errorResponse
// @Failure      415   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/admin/uploads [post]
func (h *UploadHandler) ProductImage(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds 5MB")
	}

	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer f.Close()

	url, err := h.media.UploadProductImage(c.Request().Context(), fh.Filename, fh.Header.Get(echo.HeaderContentType), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, uploadResponse{URL: url})
}
