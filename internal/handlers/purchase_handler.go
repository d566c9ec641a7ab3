package handlers

import (
	"net/http"

	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseService *services.PurchaseService
}

func NewPurchaseHandler(purchaseService *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// AddPurchase handles POST /api/v1/purchases
func (h *PurchaseHandler) AddPurchase(c *gin.Context) {
	var req services.CreatePurchaseRequest
	if !bind(c, &req) {
		return
	}
	purchase, err := h.purchaseService.AddPurchase(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Impossibile registrare l'acquisto")
		return
	}
	responses.Success(c, http.StatusCreated, purchase, "Acquisto registrato con successo!")
}
