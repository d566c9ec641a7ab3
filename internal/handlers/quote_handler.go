package handlers

import (
	"net/http"

	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteService *services.QuoteService
}

func NewQuoteHandler(quoteService *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

func (h *QuoteHandler) SaveQuote(c *gin.Context) {
	var req services.QuoteRequest
	if !bind(c, &req) {
		return
	}
	quote, err := h.quoteService.SaveQuote(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Errore durante il salvataggio del preventivo.")
		return
	}
	responses.Success(c, http.StatusCreated, quote, "Preventivo "+quote.QuoteNumber+" salvato con successo!")
}

// PreviewQuote handles POST /api/v1/quotes/preview; nothing is stored.
func (h *QuoteHandler) PreviewQuote(c *gin.Context) {
	var req services.QuoteRequest
	if !bind(c, &req) {
		return
	}
	preview, err := h.quoteService.PreviewQuote(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Impossibile calcolare il preventivo")
		return
	}
	responses.Success(c, http.StatusOK, preview, "")
}

func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quote, err := h.quoteService.GetQuote(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile caricare il preventivo")
		return
	}
	responses.Success(c, http.StatusOK, quote, "")
}

func (h *QuoteHandler) QuotePDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.quoteService.QuotePDF(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile generare il PDF del preventivo")
		return
	}
	responses.Attachment(c, doc.Filename, doc.ContentType, doc.Content)
}
