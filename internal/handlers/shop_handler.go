package handlers

import (
	"net/http"

	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	shopService *services.ShopService
}

func NewShopHandler(shopService *services.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// GetShopInfo handles GET /api/v1/shop
func (h *ShopHandler) GetShopInfo(c *gin.Context) {
	info, err := h.shopService.GetShopInfo(c.Request.Context())
	if err != nil {
		fail(c, err, "Impossibile caricare l'intestazione")
		return
	}
	responses.Success(c, http.StatusOK, info, "")
}

// SaveShopInfo handles PUT /api/v1/shop
func (h *ShopHandler) SaveShopInfo(c *gin.Context) {
	var req services.SaveShopInfoRequest
	if !bind(c, &req) {
		return
	}
	info, err := h.shopService.SaveShopInfo(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Impossibile salvare l'intestazione")
		return
	}
	responses.Success(c, http.StatusOK, info, "Intestazione salvata con successo")
}
