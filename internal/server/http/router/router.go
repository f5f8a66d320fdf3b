package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/fotovariedades/storefront/internal/domain/model"
	"github.com/fotovariedades/storefront/internal/server/http/handlers"
	"github.com/fotovariedades/storefront/internal/server/http/middleware"
	"github.com/fotovariedades/storefront/internal/server/ws"
)

const staffEventsPath = "/api/staff/events"

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, hub *ws.Hub, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(middleware.DefaultBodyLimit))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{staffEventsPath})))

	authHandler := handlers.NewAuthHandler(facade)
	userHandler := handlers.NewUserHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	authRequired := middleware.AuthRequired(facade, logger)
	can := middleware.RequirePermission

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/webhooks/wompi", paymentHandler.Webhook)
	api.GET("/staff/events", ws.Handler(facade, hub, logger))

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/token", authHandler.Token)
	authUser := auth.Group("", authRequired)
	authUser.GET("/me", authHandler.Me)
	authUser.POST("/refresh", authHandler.Refresh)
	authUser.PUT("/password", authHandler.ChangePassword)

	products := api.Group("/products")
	products.GET("", middleware.OptionalAuth(facade, logger), productHandler.List)
	products.GET("/:id", middleware.OptionalAuth(facade, logger), productHandler.Get)
	catalog := products.Group("", authRequired, can(model.PermManageCatalog))
	catalog.POST("", productHandler.Create)
	catalog.PUT("/:id", productHandler.Update)
	catalog.DELETE("/:id", productHandler.Delete)
	catalog.POST("/:id/inventory", productHandler.AdjustInventory)

	api.POST("/checkout", authRequired, can(model.PermPlaceOrders), orderHandler.Checkout)

	orders := api.Group("/orders", authRequired)
	orders.GET("", orderHandler.List)
	orders.POST("/redeem", can(model.PermRedeemOrders), orderHandler.Redeem)
	orders.GET("/:id", orderHandler.Get)
	orders.GET("/:id/qr", orderHandler.QRCode)
	orders.GET("/:id/payments", paymentHandler.OrderPayments)
	orders.POST("/:id/cancel", orderHandler.Cancel)

	admin := api.Group("/admin", authRequired)
	admin.GET("/orders", can(model.PermViewAllOrders), orderHandler.AdminList)
	admin.GET("/orders/stats", can(model.PermViewStatistics), orderHandler.Statistics)
	admin.GET("/payments", can(model.PermViewPayments), paymentHandler.List)
	admin.GET("/payments/stats", can(model.PermViewStatistics), paymentHandler.Statistics)
	admin.GET("/payments/:transaction_id", can(model.PermViewPayments), paymentHandler.Get)
	users := admin.Group("/users", can(model.PermManageUsers))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PATCH("/:id", userHandler.Update)

	return engine
}
