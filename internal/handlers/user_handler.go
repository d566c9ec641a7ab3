package handlers

import (
	"net/http"

	"gestionale/internal/middlewares"
	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	claims, ok := middlewares.ClaimsFrom(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Autenticazione richiesta")
		return
	}
	id, err := claims.UserID()
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, err, "Token non valido")
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile caricare l'utente")
		return
	}
	responses.Success(c, http.StatusOK, user, "")
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err, "Impossibile caricare gli utenti")
		return
	}
	responses.Success(c, http.StatusOK, users, "")
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile caricare l'utente")
		return
	}
	responses.Success(c, http.StatusOK, user, "")
}
