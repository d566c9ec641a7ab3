package handlers

import (
	"net/http"

	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err, "Impossibile caricare le categorie")
		return
	}
	responses.Success(c, http.StatusOK, categories, "")
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if !bind(c, &req) {
		return
	}
	category, err := h.categoryService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Impossibile creare la categoria")
		return
	}
	responses.Success(c, http.StatusCreated, category, "Categoria creata")
}
