package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errorMapping pairs a sentinel with the status it renders as. A nil
// message func means the fixed text is used; otherwise the message is
// derived from the error itself.
type errorMapping struct {
	target  error
	status  int
	text    string
	message func(error) string
}

var errorMappings = []errorMapping{
	{target: domain.ErrProductNotFound, status: http.StatusNotFound, text: "product not found"},
	{target: domain.ErrDocumentNotFound, status: http.StatusNotFound, text: "product not found"},
	{target: domain.ErrPromotionNotFound, status: http.StatusNotFound, text: "promotion not found"},
	{target: domain.ErrUserNotFound, status: http.StatusNotFound, text: "user not found"},
	{target: domain.ErrForbidden, status: http.StatusForbidden, text: "access forbidden"},
	{target: domain.ErrInvalidProduct, status: http.StatusUnprocessableEntity, message: errorText},
	{target: domain.ErrInvalidPromotion, status: http.StatusUnprocessableEntity, message: errorText},
	{target: domain.ErrInvalidName, status: http.StatusBadRequest, message: errorText},
	{target: domain.ErrInvalidRole, status: http.StatusBadRequest, message: errorText},
	{target: domain.ErrWrongPassword, status: http.StatusUnauthorized, message: domain.AuthMessage},
	{target: domain.ErrInvalidEmail, status: http.StatusBadRequest, message: domain.AuthMessage},
	{target: domain.ErrWeakPassword, status: http.StatusBadRequest, message: domain.AuthMessage},
	{target: domain.ErrEmailInUse, status: http.StatusConflict, message: domain.AuthMessage},
	{target: domain.ErrTooManyRequests, status: http.StatusTooManyRequests, message: domain.AuthMessage},
	{target: service.ErrUnsupportedMedia, status: http.StatusUnsupportedMediaType, text: "unsupported media type"},
	{target: service.ErrStorageDisabled, status: http.StatusServiceUnavailable, message: errorText},
	{target: service.ErrCatalogUnavailable, status: http.StatusServiceUnavailable, message: errorText},
}

func errorText(err error) string { return err.Error() }

// NewHTTPErrorHandler renders every error as {"error": "..."}. Errors with
// no mapping are logged and surface as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg, known := classify(err)
		if !known {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}
		_ = c.JSON(status, errorResponse{Error: msg})
	}
}

func classify(err error) (int, string, bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message), true
	}
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.message != nil {
			return m.status, m.message(err), true
		}
		return m.status, m.text, true
	}
	return http.StatusInternalServerError, "internal server error", false
}
