package routes

import (
	"gestionale/internal/handlers"

	"github.com/gin-gonic/gin"
)

type CatalogRoutes struct {
	shop     *handlers.ShopHandler
	category *handlers.CategoryHandler
	product  *handlers.ProductHandler
}

func NewCatalogRoutes(shop *handlers.ShopHandler, category *handlers.CategoryHandler, product *handlers.ProductHandler) *CatalogRoutes {
	return &CatalogRoutes{shop: shop, category: category, product: product}
}

func (r *CatalogRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/shop", r.shop.GetShopInfo)
	router.PUT("/shop", r.shop.SaveShopInfo)

	categories := router.Group("/categories")
	{
		categories.GET("", r.category.ListCategories)
		categories.POST("", r.category.CreateCategory)
	}

	products := router.Group("/products")
	{
		products.GET("", r.product.ListProducts)
		products.POST("", r.product.AddProduct)
		products.GET("/pricing", r.product.Pricing)
		products.PUT("/:id", r.product.UpdateProduct)
		products.DELETE("/:id", r.product.DeleteProduct)
	}
}
