package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gestionale/internal/models"
	"gestionale/internal/repositories"
)

type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

type CreateCategoryRequest struct {
	Name         string  `json:"name" binding:"required"`
	ProfitMargin float64 `json:"profit_margin"`
	VATRate      float64 `json:"vat_rate"`
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("nome categoria obbligatorio")
	}
	if req.ProfitMargin < 0 {
		return nil, invalid("margine non valido: %.2f", req.ProfitMargin)
	}
	if req.VATRate < 0 || req.VATRate > 100 {
		return nil, invalid("aliquota IVA non valida: %.2f", req.VATRate)
	}

	existing, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil || strings.EqualFold(name, models.UncategorizedCategoryName) {
		return nil, conflict("Categoria già esistente")
	}

	category := &models.Category{
		Name:         name,
		ProfitMargin: req.ProfitMargin,
		VATRate:      req.VATRate,
	}
	if err := s.store.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict("Categoria già esistente")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}
