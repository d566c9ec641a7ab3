package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gestionale/internal/models"
	"gestionale/internal/repositories"
	"gestionale/internal/utils"

	"github.com/google/uuid"
)

type ProductService struct {
	products   ProductStore
	categories CategoryStore

	// upsertMu serializes the read-merge-write of AddProduct.
	upsertMu sync.Mutex
}

func NewProductService(products ProductStore, categories CategoryStore) *ProductService {
	return &ProductService{products: products, categories: categories}
}

type ProductRequest struct {
	CategoryID    string  `json:"category_id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
	SalePrice     float64 `json:"sale_price"`
}

// ItemRequest references a catalog product with a quantity.
type ItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity"`
}

func (r ProductRequest) validate() (uuid.UUID, error) {
	if strings.TrimSpace(r.Name) == "" {
		return uuid.Nil, invalid("nome prodotto obbligatorio")
	}
	if strings.TrimSpace(r.Code) == "" {
		return uuid.Nil, invalid("codice prodotto obbligatorio")
	}
	if r.Quantity < 0 {
		return uuid.Nil, invalid("quantità non valida: %v", r.Quantity)
	}
	if r.PurchasePrice < 0 || r.SalePrice < 0 {
		return uuid.Nil, invalid("i prezzi non possono essere negativi")
	}
	return parseOptionalID(r.CategoryID, "category_id")
}

func parseOptionalID(raw, field string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := utils.ParseUUID(raw)
	if err != nil {
		return uuid.Nil, invalid("%s non valido: %q", field, raw)
	}
	return id, nil
}

func parseRequiredID(raw, field string) (uuid.UUID, error) {
	id, err := parseOptionalID(raw, field)
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, invalid("%s obbligatorio", field)
	}
	return id, nil
}

func (s *ProductService) ListProducts(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return nonNil(products), nil
}

// ListAllProducts returns the catalog, filtered by a case-insensitive
// substring of name or code when search is not empty.
func (s *ProductService) ListAllProducts(ctx context.Context, search string) ([]models.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return FilterProducts(products, search), nil
}

func FilterProducts(products []models.Product, search string) []models.Product {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return nonNil(products)
	}
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Code), term) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// AddProduct inserts a product or, when the code already exists, merges the
// incoming data into it: name and prices are replaced, stock is added and
// the category only moves when a real category is given. The boolean
// reports whether a new product was created.
func (s *ProductService) AddProduct(ctx context.Context, req ProductRequest) (*models.Product, bool, error) {
	categoryID, err := req.validate()
	if err != nil {
		return nil, false, err
	}
	category, err := s.lookupCategory(ctx, categoryID)
	if err != nil {
		return nil, false, err
	}

	s.upsertMu.Lock()
	defer s.upsertMu.Unlock()

	existing, err := s.products.FindByCode(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up product code: %w", err)
	}

	if existing != nil {
		updated := *existing
		updated.Name = strings.TrimSpace(req.Name)
		updated.PurchasePrice = RoundCents(req.PurchasePrice)
		updated.SalePrice = RoundCents(req.SalePrice)
		updated.Quantity = existing.Quantity + req.Quantity
		if !models.IsUncategorized(categoryID) {
			updated.CategoryID = categoryID
		} else if category, err = s.lookupCategory(ctx, existing.CategoryID); err != nil {
			return nil, false, err
		}
		applySuggestedPrice(&updated, category)

		if err := s.products.Update(ctx, &updated); err != nil {
			return nil, false, fromStore(err, "Prodotto non trovato")
		}
		return &updated, false, nil
	}

	product := &models.Product{
		CategoryID:    categoryID,
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		Quantity:      req.Quantity,
		PurchasePrice: RoundCents(req.PurchasePrice),
		SalePrice:     RoundCents(req.SalePrice),
	}
	applySuggestedPrice(product, category)
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, false, conflict("Codice prodotto già esistente")
		}
		return nil, false, fmt.Errorf("failed to create product: %w", err)
	}
	return product, true, nil
}

// UpdateProduct replaces every editable field of the product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req ProductRequest) (*models.Product, error) {
	categoryID, err := req.validate()
	if err != nil {
		return nil, err
	}
	if _, err := s.lookupCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, notFound("Prodotto non trovato")
	}

	other, err := s.products.FindByCode(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		return nil, fmt.Errorf("failed to look up product code: %w", err)
	}
	if other != nil && other.ID != id {
		return nil, conflict("Codice prodotto già in uso da un altro prodotto")
	}

	updated := *existing
	updated.CategoryID = categoryID
	if updated.CategoryID == uuid.Nil {
		updated.CategoryID = models.UncategorizedCategoryID
	}
	updated.Code = strings.TrimSpace(req.Code)
	updated.Name = strings.TrimSpace(req.Name)
	updated.Quantity = req.Quantity
	updated.PurchasePrice = RoundCents(req.PurchasePrice)
	updated.SalePrice = RoundCents(req.SalePrice)

	if err := s.products.Update(ctx, &updated); err != nil {
		return nil, fromStore(err, "Prodotto non trovato")
	}
	return &updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fromStore(err, "Prodotto non trovato")
	}
	return nil
}

func (s *ProductService) lookupCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, invalid("categoria inesistente: %s", id)
	}
	return category, nil
}

func applySuggestedPrice(p *models.Product, category *models.Category) {
	if p.SalePrice > 0 || category == nil || category.ProfitMargin <= 0 {
		return
	}
	p.SalePrice = SuggestSalePrice(p.PurchasePrice, category.ProfitMargin)
}

// resolveItems loads every referenced product so the caller can snapshot it.
func resolveItems(ctx context.Context, products ProductStore, items []ItemRequest) ([]models.Product, []float64, error) {
	if len(items) == 0 {
		return nil, nil, invalid("aggiungi almeno un prodotto")
	}
	resolved := make([]models.Product, 0, len(items))
	quantities := make([]float64, 0, len(items))
	for i, item := range items {
		id, err := parseRequiredID(item.ProductID, "product_id")
		if err != nil {
			return nil, nil, err
		}
		if item.Quantity < 1 {
			return nil, nil, invalid("riga %d: la quantità deve essere almeno 1", i+1)
		}
		product, err := products.GetByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get product %s: %w", id, err)
		}
		if product == nil {
			return nil, nil, invalid("riga %d: prodotto non trovato", i+1)
		}
		resolved = append(resolved, *product)
		quantities = append(quantities, item.Quantity)
	}
	return resolved, quantities, nil
}
