package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/diecastgarage/storefront/docs"
	"github.com/diecastgarage/storefront/internal/api/handler"
	"github.com/diecastgarage/storefront/internal/api/middleware"
	"github.com/diecastgarage/storefront/internal/core/ports"
	infrahttp "github.com/diecastgarage/storefront/internal/infrastructure/http"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Catalog    ports.ProductCatalog
	Sessions   ports.SessionProvider
	Auth       ports.AuthService
	Users      ports.UserAdmin
	Promotions ports.PromotionService
	Media      ports.MediaService
	Probes     map[string]ports.Pinger
	JWTSecret  string
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Diecast Garage storefront API
// @version                     1.0
// @description                 Catalog, cart, favorites and back-office for a die-cast model store.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Probes and tooling (no auth required) ---
	infrahttp.RegisterHealth(e, d.Probes)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	optionalAuth := middleware.OptionalAuth(d.JWTSecret)
	session := middleware.Session(d.Sessions)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login, optionalAuth, session)
	e.POST("/auth/logout", authHandler.Logout, optionalAuth, session)

	me := e.Group("/auth/me", middleware.Auth(d.JWTSecret))
	me.GET("", authHandler.Me)
	me.PATCH("", authHandler.UpdateMe)

	// --- Storefront (session scoped, identity optional) ---
	productHandler := handler.NewProductHandler(d.Catalog, d.Promotions, d.Logger)
	cartHandler := handler.NewCartHandler(d.Catalog)
	favoritesHandler := handler.NewFavoritesHandler(d.Catalog)
	notificationHandler := handler.NewNotificationHandler()
	promotionHandler := handler.NewPromotionHandler(d.Promotions)

	v1 := e.Group("/v1", optionalAuth, session)

	v1.GET("/products", productHandler.List)
	v1.GET("/products/status", productHandler.Status)
	v1.GET("/products/:id", productHandler.Get)
	v1.GET("/promotions", promotionHandler.Active)

	v1.GET("/cart", cartHandler.Get)
	v1.DELETE("/cart", cartHandler.Clear)
	v1.POST("/cart/items", cartHandler.AddItem)
	v1.PATCH("/cart/items/:id", cartHandler.UpdateItem)
	v1.DELETE("/cart/items/:id", cartHandler.RemoveItem)

	v1.GET("/favorites", favoritesHandler.List)
	v1.GET("/favorites/:id", favoritesHandler.Status)
	v1.PUT("/favorites/:id", favoritesHandler.Add)
	v1.DELETE("/favorites/:id", favoritesHandler.Remove)

	v1.GET("/notifications", notificationHandler.List)
	v1.DELETE("/notifications/:id", notificationHandler.Dismiss)

	// --- Back office ---
	userHandler := handler.NewUserHandler(d.Users)
	uploadHandler := handler.NewUploadHandler(d.Media)

	admin := e.Group("/v1/admin", middleware.Auth(d.JWTSecret), middleware.AdminOnly(), session)

	admin.POST("/products", productHandler.Create)
	admin.POST("/products/refresh", productHandler.Refresh)
	admin.PATCH("/products/:id", productHandler.Update)
	admin.DELETE("/products/:id", productHandler.Delete)

	admin.POST("/uploads", uploadHandler.ProductImage)

	admin.GET("/users", userHandler.List)
	admin.GET("/users/stats", userHandler.Stats)
	admin.POST("/users/:id/promote", userHandler.Promote)
	admin.POST("/users/:id/demote", userHandler.Demote)

	admin.GET("/promotions", promotionHandler.List)
	admin.POST("/promotions", promotionHandler.Create)
	admin.PUT("/promotions/:id", promotionHandler.Update)
	admin.DELETE("/promotions/:id", promotionHandler.Delete)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("session_id", c.Response().Header().Get(middleware.HeaderSessionID)).
				Msg("request")
			return nil
		},
	})
}
