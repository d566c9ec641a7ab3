package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gestionale/internal/ai"
	"gestionale/internal/config"
	"gestionale/internal/handlers"
	"gestionale/internal/middlewares"
	"gestionale/internal/routes"
	"gestionale/internal/services"
	"gestionale/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewServer builds the router over st and returns the HTTP server. The
// caller owns st and closes it after shutdown.
func NewServer(ctx context.Context, cfg *config.Config, st *Storage, log *zap.Logger) (*http.Server, error) {
	var assistant services.Assistant
	if cfg.GeminiAPIKey != "" {
		gemini, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		log.Info("AI assistant enabled", zap.String("model", gemini.Model()))
		assistant = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set, AI features disabled")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := NewRouter(cfg, st, assistant, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
	return server, nil
}

// NewRouter does the dependency injection from stores to routes. A nil
// assistant disables extraction, categorization and autofill.
func NewRouter(cfg *config.Config, st *Storage, assistant services.Assistant, log *zap.Logger) *gin.Engine {
	tokens := utils.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret)

	shopService := services.NewShopService(st.Shop, cfg.AppName)
	categoryService := services.NewCategoryService(st.Categories)
	productService := services.NewProductService(st.Products, st.Categories)
	customerService := services.NewCustomerService(st.Customers, st.Sites, st.Purchases, st.Quotes, assistant)
	siteService := services.NewSiteService(st.Sites, st.Customers, st.Products, shopService)
	purchaseService := services.NewPurchaseService(st.Purchases, st.Sites, st.Customers, st.Products)
	quoteService := services.NewQuoteService(st.Quotes, st.Customers, st.Sites, st.Products, st.Categories, shopService)
	orderService := services.NewOrderService(st.Customers, st.Sites, st.Products, shopService)
	importService := services.NewImportService(assistant, st.Categories, st.Documents, productService, log)
	authService := services.NewAuthService(st.Users, tokens, st.Revoker, log)
	userService := services.NewUserService(st.Users)

	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, !cfg.IsDevelopment()),
		User:     handlers.NewUserHandler(userService),
		Shop:     handlers.NewShopHandler(shopService),
		Category: handlers.NewCategoryHandler(categoryService),
		Product:  handlers.NewProductHandler(productService),
		Customer: handlers.NewCustomerHandler(customerService, siteService),
		Site:     handlers.NewSiteHandler(siteService, purchaseService, quoteService),
		Purchase: handlers.NewPurchaseHandler(purchaseService),
		Quote:    handlers.NewQuoteHandler(quoteService),
		Order:    handlers.NewOrderHandler(orderService),
		Import:   handlers.NewImportHandler(importService),
	}

	router := gin.New()
	router.MaxMultipartMemory = handlers.MaxUploadSize
	router.Use(middlewares.Recovery(log), middlewares.RequestLogger(log), cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	routes.RegisterRoutes(router, h, routes.Guards{
		Required: middlewares.Authenticate(authService),
		Optional: middlewares.OptionalAuthenticate(authService),
	})
	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
