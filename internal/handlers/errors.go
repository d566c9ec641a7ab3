package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrConflict, http.StatusConflict},
	{services.ErrDuplicateDocument, http.StatusConflict},
	{services.ErrInvalidInput, http.StatusBadRequest},
	{services.ErrAIUnavailable, http.StatusServiceUnavailable},
	{services.ErrUnauthorized, http.StatusUnauthorized},
}

// fail maps service errors to a status code. Known errors carry the
// user-facing reason as message, anything else gets the fallback.
func fail(c *gin.Context, err error, fallback string) {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			responses.Fail(c, s.status, err, reason(err, s.err, fallback))
			return
		}
	}
	responses.Fail(c, http.StatusInternalServerError, err, fallback)
}

func reason(err, sentinel error, fallback string) string {
	msg, ok := strings.CutPrefix(err.Error(), sentinel.Error()+": ")
	if !ok || msg == "" {
		if errors.Is(sentinel, services.ErrAIUnavailable) {
			return "Funzionalità AI non configurata (GEMINI_API_KEY mancante)."
		}
		return fallback
	}
	return msg
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "ID non valido")
		return uuid.Nil, false
	}
	return id, true
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Dati della richiesta non validi")
		return false
	}
	return true
}
