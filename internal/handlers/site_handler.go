package handlers

import (
	"net/http"

	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
)

type SiteHandler struct {
	siteService     *services.SiteService
	purchaseService *services.PurchaseService
	quoteService    *services.QuoteService
}

func NewSiteHandler(siteService *services.SiteService, purchaseService *services.PurchaseService, quoteService *services.QuoteService) *SiteHandler {
	return &SiteHandler{
		siteService:     siteService,
		purchaseService: purchaseService,
		quoteService:    quoteService,
	}
}

// UpdateMaterials handles PUT /api/v1/sites/:id/materials
func (h *SiteHandler) UpdateMaterials(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateMaterialsRequest
	if !bind(c, &req) {
		return
	}
	site, err := h.siteService.UpdateSiteMaterials(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err, "Impossibile aggiornare i materiali")
		return
	}
	responses.Success(c, http.StatusOK, site, "Materiali aggiornati")
}

// ChecklistPDF handles GET /api/v1/sites/:id/checklist.pdf
func (h *SiteHandler) ChecklistPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.siteService.SiteChecklistPDF(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile generare la lista materiali")
		return
	}
	responses.Attachment(c, doc.Filename, doc.ContentType, doc.Content)
}

func (h *SiteHandler) ListPurchases(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	history, err := h.purchaseService.ListPurchasesForSite(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile caricare gli acquisti")
		return
	}
	responses.Success(c, http.StatusOK, history, "")
}

func (h *SiteHandler) ListQuotes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quotes, err := h.quoteService.ListQuotesForSite(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile caricare i preventivi")
		return
	}
	responses.Success(c, http.StatusOK, quotes, "")
}
