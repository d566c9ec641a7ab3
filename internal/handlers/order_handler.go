package handlers

import (
	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderPDF handles POST /api/v1/orders/pdf
func (h *OrderHandler) OrderPDF(c *gin.Context) {
	var req services.OrderRequest
	if !bind(c, &req) {
		return
	}
	doc, err := h.orderService.OrderPDF(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Impossibile generare l'ordine")
		return
	}
	responses.Attachment(c, doc.Filename, doc.ContentType, doc.Content)
}
