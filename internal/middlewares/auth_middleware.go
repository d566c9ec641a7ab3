package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"gestionale/internal/responses"
	"gestionale/internal/services"
	"gestionale/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	// AccessTokenCookieName lets browser clients authenticate without
	// handling the header themselves.
	AccessTokenCookieName = "access_token"

	claimsKey = "claims"
	userIDKey = "userId"
)

// Authenticate rejects requests without a valid, non-revoked access token.
func Authenticate(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			responses.Fail(c, http.StatusUnauthorized, err, "Autenticazione richiesta")
			return
		}
		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			responses.Fail(c, http.StatusUnauthorized, err, "Token non valido o scaduto")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthenticate records the caller when a valid token is present and
// lets anonymous requests through.
func OptionalAuthenticate(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err == nil {
			if claims, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by the auth middlewares.
func ClaimsFrom(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}

func setClaims(c *gin.Context, claims *utils.Claims) {
	c.Set(claimsKey, claims)
	if id, err := claims.UserID(); err == nil {
		c.Set(userIDKey, id)
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if cookie, err := c.Cookie(AccessTokenCookieName); err == nil && cookie != "" {
			return cookie, nil
		}
		return "", errors.New("missing Authorization header")
	}

	// Expected format: "Bearer <token>"
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid Authorization format")
	}
	return strings.TrimSpace(token), nil
}
