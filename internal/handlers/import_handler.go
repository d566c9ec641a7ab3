package handlers

import (
	"fmt"
	"io"
	"net/http"

	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
)

// MaxUploadSize bounds a single imported document.
const MaxUploadSize = 20 << 20

type ImportHandler struct {
	importService *services.ImportService
}

func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportDocument handles POST /api/v1/imports with a multipart "file".
func (h *ImportHandler) ImportDocument(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Seleziona un file da caricare")
		return
	}
	if header.Size > MaxUploadSize {
		responses.Fail(c, http.StatusRequestEntityTooLarge, nil, fmt.Sprintf("Il file supera %d MB", MaxUploadSize>>20))
		return
	}
	f, err := header.Open()
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Impossibile leggere il file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Impossibile leggere il file")
		return
	}

	result, err := h.importService.ImportDocument(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		fail(c, err, "Errore durante l'analisi del documento")
		return
	}
	responses.Success(c, http.StatusOK, result, fmt.Sprintf("%d prodotti estratti. Controlla e salva.", len(result.Products)))
}

// CommitImport handles POST /api/v1/imports/commit
func (h *ImportHandler) CommitImport(c *gin.Context) {
	var req services.CommitImportRequest
	if !bind(c, &req) {
		return
	}
	result, err := h.importService.CommitImport(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Impossibile salvare i prodotti")
		return
	}
	msg := fmt.Sprintf("%d prodotti salvati.", result.Saved)
	if result.Failed > 0 || result.Skipped > 0 {
		msg = fmt.Sprintf("%d prodotti salvati, %d falliti, %d saltati.", result.Saved, result.Failed, result.Skipped)
	}
	responses.Success(c, http.StatusOK, result, msg)
}

type signatureRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// CheckDocument handles GET /api/v1/imports/check?signature=
func (h *ImportHandler) CheckDocument(c *gin.Context) {
	exists, err := h.importService.CheckDocument(c.Request.Context(), c.Query("signature"))
	if err != nil {
		fail(c, err, "Impossibile verificare il documento")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{"imported": exists}, "")
}

// RecordDocument marks a document as imported without saving products.
func (h *ImportHandler) RecordDocument(c *gin.Context) {
	var req signatureRequest
	if !bind(c, &req) {
		return
	}
	if err := h.importService.RecordDocument(c.Request.Context(), req.Signature); err != nil {
		fail(c, err, "Impossibile registrare il documento")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Documento registrato")
}
