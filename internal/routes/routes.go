package routes

import (
	"net/http"

	"gestionale/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the API exposes.
type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Shop     *handlers.ShopHandler
	Category *handlers.CategoryHandler
	Product  *handlers.ProductHandler
	Customer *handlers.CustomerHandler
	Site     *handlers.SiteHandler
	Purchase *handlers.PurchaseHandler
	Quote    *handlers.QuoteHandler
	Order    *handlers.OrderHandler
	Import   *handlers.ImportHandler
}

// Guards are the auth middlewares: Required rejects anonymous requests,
// Optional only records the caller when a token is present.
type Guards struct {
	Required gin.HandlerFunc
	Optional gin.HandlerFunc
}

func RegisterRoutes(router *gin.Engine, h Handlers, guards Guards) {
	api := router.Group("/api/v1")

	NewAuthRoutes(h.Auth, guards).RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(guards.Required)

	NewUserRoutes(h.User).RegisterRoutes(protected)
	NewCatalogRoutes(h.Shop, h.Category, h.Product).RegisterRoutes(protected)
	NewCustomerRoutes(h.Customer, h.Site).RegisterRoutes(protected)
	NewDocumentRoutes(h.Purchase, h.Quote, h.Order, h.Import).RegisterRoutes(protected)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
