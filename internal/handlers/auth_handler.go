package handlers

import (
	"net/http"
	"time"

	"gestionale/internal/middlewares"
	"gestionale/internal/models"
	"gestionale/internal/responses"
	"gestionale/internal/services"
	"gestionale/internal/utils"

	"github.com/gin-gonic/gin"
)

// Cookie configuration
const (
	RefreshTokenCookieName = "refresh_token"
	refreshCookiePath      = "/api/v1/auth"
)

type AuthHandler struct {
	authService   *services.AuthService
	secureCookies bool
}

func NewAuthHandler(authService *services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

type sessionResponse struct {
	User        *models.User `json:"user,omitempty"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Register handles POST /api/v1/auth/register. Anonymous callers are only
// accepted while no operator exists.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Inserisci email e password (almeno 8 caratteri)")
		return
	}
	_, authenticated := middlewares.ClaimsFrom(c)

	user, err := h.authService.Register(c.Request.Context(), req, authenticated)
	if err != nil {
		fail(c, err, "Impossibile registrare l'utente")
		return
	}
	responses.Success(c, http.StatusCreated, user, "Utente registrato con successo")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Formato non valido")
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Accesso non riuscito")
		return
	}
	h.setRefreshCookie(c, pair)

	responses.Success(c, http.StatusOK, sessionResponse{
		User:        user,
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.AccessExpiresAt,
	}, "Accesso effettuato")
}

// Refresh rotates the token pair using the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshTokenCookieName)
	if err != nil {
		responses.Fail(c, http.StatusUnauthorized, err, "Refresh token mancante")
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		fail(c, err, "Refresh token non valido o scaduto")
		return
	}
	h.setRefreshCookie(c, pair)

	responses.Success(c, http.StatusOK, sessionResponse{
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.AccessExpiresAt,
	}, "Token aggiornato")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middlewares.ClaimsFrom(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Autenticazione richiesta")
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		fail(c, err, "Impossibile terminare la sessione")
		return
	}
	h.clearRefreshCookie(c)
	responses.Success(c, http.StatusOK, nil, "Disconnesso")
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, pair *utils.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshTokenCookieName, pair.RefreshToken, int(utils.RefreshTokenDuration.Seconds()), refreshCookiePath, "", h.secureCookies, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshTokenCookieName, "", -1, refreshCookiePath, "", h.secureCookies, true)
}
