package routes

import (
	"gestionale/internal/handlers"

	"github.com/gin-gonic/gin"
)

type AuthRoutes struct {
	handler *handlers.AuthHandler
	guards  Guards
}

func NewAuthRoutes(handler *handlers.AuthHandler, guards Guards) *AuthRoutes {
	return &AuthRoutes{handler: handler, guards: guards}
}

func (r *AuthRoutes) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", r.guards.Optional, r.handler.Register)
		auth.POST("/login", r.handler.Login)
		auth.POST("/refresh", r.handler.Refresh)
		auth.POST("/logout", r.guards.Required, r.handler.Logout)
	}
}
