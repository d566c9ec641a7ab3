package routes

import (
	"gestionale/internal/handlers"

	"github.com/gin-gonic/gin"
)

type CustomerRoutes struct {
	customer *handlers.CustomerHandler
	site     *handlers.SiteHandler
}

func NewCustomerRoutes(customer *handlers.CustomerHandler, site *handlers.SiteHandler) *CustomerRoutes {
	return &CustomerRoutes{customer: customer, site: site}
}

func (r *CustomerRoutes) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/customers")
	{
		customers.GET("", r.customer.ListCustomers)
		customers.POST("", r.customer.AddCustomer)
		customers.POST("/autofill", r.customer.Autofill)
		customers.GET("/:id", r.customer.GetCustomer)
		customers.GET("/:id/overview", r.customer.Overview)
		customers.GET("/:id/sites", r.customer.ListSites)
		customers.POST("/:id/sites", r.customer.AddSite)
	}

	sites := router.Group("/sites")
	{
		sites.PUT("/:id/materials", r.site.UpdateMaterials)
		sites.GET("/:id/checklist.pdf", r.site.ChecklistPDF)
		sites.GET("/:id/purchases", r.site.ListPurchases)
		sites.GET("/:id/quotes", r.site.ListQuotes)
	}
}
