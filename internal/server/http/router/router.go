package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/pcbuilder/storefront/internal/server/http/handlers"
	"github.com/pcbuilder/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	buildHandler := handlers.NewBuildHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	profileHandler := handlers.NewProfileHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)

	engine.GET("/healthz", handlers.Health(facade))

	api := engine.Group("/api")

	catalog := api.Group("/catalog")
	catalog.GET("", catalogHandler.Categories)
	catalog.GET("/:category", catalogHandler.List)
	catalog.GET("/:category/manufacturers", catalogHandler.Manufacturers)
	catalog.GET("/:category/:id", catalogHandler.Get)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.GET("/build", buildHandler.Get)
	userAuth.PUT("/build/:category", buildHandler.Put)
	userAuth.DELETE("/build/:category", buildHandler.Delete)
	userAuth.POST("/checkout", orderHandler.Checkout)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/orders/:id", orderHandler.Get)
	userAuth.POST("/orders/:id/items", orderHandler.RetryItems)
	userAuth.POST("/orders/:id/pay", orderHandler.Pay)
	userAuth.GET("/payments/return", paymentHandler.Return)
	userAuth.GET("/payments/latest", paymentHandler.Latest)
	userAuth.GET("/profile", profileHandler.Get)
	userAuth.PUT("/profile", profileHandler.Update)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(facade), middleware.AdminRequired(facade))
	admin.GET("/orders", adminHandler.Orders)
	admin.PATCH("/orders/:id/status", adminHandler.UpdateStatus)
	admin.POST("/orders/:id/refund", adminHandler.Refund)
	admin.GET("/users", adminHandler.Users)

	return engine
}
