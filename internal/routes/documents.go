package routes

import (
	"gestionale/internal/handlers"

	"github.com/gin-gonic/gin"
)

// DocumentRoutes covers purchases, quotes, material orders and imports.
type DocumentRoutes struct {
	purchase *handlers.PurchaseHandler
	quote    *handlers.QuoteHandler
	order    *handlers.OrderHandler
	imports  *handlers.ImportHandler
}

func NewDocumentRoutes(purchase *handlers.PurchaseHandler, quote *handlers.QuoteHandler, order *handlers.OrderHandler, imports *handlers.ImportHandler) *DocumentRoutes {
	return &DocumentRoutes{purchase: purchase, quote: quote, order: order, imports: imports}
}

func (r *DocumentRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/purchases", r.purchase.AddPurchase)

	quotes := router.Group("/quotes")
	{
		quotes.POST("", r.quote.SaveQuote)
		quotes.POST("/preview", r.quote.PreviewQuote)
		quotes.GET("/:id", r.quote.GetQuote)
		quotes.GET("/:id/pdf", r.quote.QuotePDF)
	}

	router.POST("/orders/pdf", r.order.OrderPDF)

	imports := router.Group("/imports")
	{
		imports.POST("", r.imports.ImportDocument)
		imports.POST("/commit", r.imports.CommitImport)
		imports.GET("/check", r.imports.CheckDocument)
		imports.POST("/record", r.imports.RecordDocument)
	}
}
