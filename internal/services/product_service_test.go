package services_test

import (
	"testing"

	"gestionale/internal/models"
	"gestionale/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProductMergesExistingCode(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	electric := e.category(t, "Materiale Elettrico", 60, 10)
	original := e.product(t, electric.ID.String(), "CAV-01", 5.50, 8.80)

	merged, created, err := e.products.AddProduct(ctx, services.ProductRequest{
		CategoryID:    models.UncategorizedCategoryID.String(),
		Code:          "cav-01",
		Name:          "Cavo HDMI 2m v2",
		Quantity:      5,
		PurchasePrice: 6,
		SalePrice:     9.5,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, original.ID, merged.ID)
	assert.Equal(t, "CAV-01", merged.Code)
	assert.Equal(t, "Cavo HDMI 2m v2", merged.Name)
	assert.Equal(t, 15.0, merged.Quantity)
	assert.Equal(t, 6.0, merged.PurchasePrice)
	assert.Equal(t, 9.5, merged.SalePrice)
	assert.Equal(t, electric.ID, merged.CategoryID, "uncategorized input keeps the category")

	all, err := e.products.ListAllProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddProductMovesCategory(t *testing.T) {
	e := newEnv(t, nil)
	first := e.category(t, "Abbigliamento", 50, 22)
	second := e.category(t, "Elettronica", 30, 22)
	e.product(t, first.ID.String(), "TSH-001", 8.50, 12.75)

	moved, _, err := e.products.AddProduct(t.Context(), services.ProductRequest{
		CategoryID: second.ID.String(), Code: "TSH-001", Name: "Maglietta", Quantity: 1, PurchasePrice: 8.50, SalePrice: 12.75,
	})
	require.NoError(t, err)
	assert.Equal(t, second.ID, moved.CategoryID)
}

func TestAddProductSuggestsSalePrice(t *testing.T) {
	e := newEnv(t, nil)
	clothing := e.category(t, "Abbigliamento", 50, 22)

	p, _, err := e.products.AddProduct(t.Context(), services.ProductRequest{
		CategoryID: clothing.ID.String(), Code: "JNS-004", Name: "Jeans", Quantity: 3, PurchasePrice: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, 37.5, p.SalePrice)
}

func TestAddProductDefaultsToUncategorized(t *testing.T) {
	e := newEnv(t, nil)
	p, created, err := e.products.AddProduct(t.Context(), services.ProductRequest{Code: "X-1", Name: "Vite", Quantity: 100, PurchasePrice: 0.1, SalePrice: 0.2})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.UncategorizedCategoryID, p.CategoryID)
}

func TestAddProductValidation(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()

	tests := []struct {
		name string
		req  services.ProductRequest
	}{
		{"missing name", services.ProductRequest{Code: "A"}},
		{"missing code", services.ProductRequest{Name: "A"}},
		{"negative quantity", services.ProductRequest{Code: "A", Name: "A", Quantity: -1}},
		{"negative price", services.ProductRequest{Code: "A", Name: "A", PurchasePrice: -1}},
		{"bad category id", services.ProductRequest{Code: "A", Name: "A", CategoryID: "nope"}},
		{"unknown category", services.ProductRequest{Code: "A", Name: "A", CategoryID: uuid.NewString()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.products.AddProduct(ctx, tt.req)
			assert.ErrorIs(t, err, services.ErrInvalidInput)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	a := e.product(t, "", "A-1", 1, 2)
	e.product(t, "", "B-1", 1, 2)

	updated, err := e.products.UpdateProduct(ctx, a.ID, services.ProductRequest{Code: "A-2", Name: "Nuovo", Quantity: 3, PurchasePrice: 1.234, SalePrice: 2.346})
	require.NoError(t, err)
	assert.Equal(t, "A-2", updated.Code)
	assert.Equal(t, 3.0, updated.Quantity)
	assert.Equal(t, 1.23, updated.PurchasePrice)
	assert.Equal(t, 2.35, updated.SalePrice)

	_, err = e.products.UpdateProduct(ctx, a.ID, services.ProductRequest{Code: "b-1", Name: "Nuovo"})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = e.products.UpdateProduct(ctx, uuid.New(), services.ProductRequest{Code: "Z", Name: "Z"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	p := e.product(t, "", "DEL-1", 1, 2)

	require.NoError(t, e.products.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, e.products.DeleteProduct(ctx, p.ID), services.ErrNotFound)
}

func TestListProducts(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	electronics := e.category(t, "Elettronica", 30, 22)
	e.product(t, electronics.ID.String(), "HDP-002", 45, 58.50)
	e.product(t, electronics.ID.String(), "MSE-007", 12, 15.60)
	e.product(t, "", "CAV-01", 5.5, 8.8)

	inCategory, err := e.products.ListProducts(ctx, electronics.ID)
	require.NoError(t, err)
	assert.Len(t, inCategory, 2)

	found, err := e.products.ListAllProducts(ctx, "mse")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "MSE-007", found[0].Code)

	byName, err := e.products.ListAllProducts(ctx, "PRODOTTO")
	require.NoError(t, err)
	assert.Len(t, byName, 3)
}

func TestCreateCategory(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	e.category(t, "Elettronica", 30, 22)

	_, err := e.categories.CreateCategory(ctx, services.CreateCategoryRequest{Name: " elettronica ", VATRate: 22})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = e.categories.CreateCategory(ctx, services.CreateCategoryRequest{Name: "da assegnare"})
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = e.categories.CreateCategory(ctx, services.CreateCategoryRequest{Name: "IVA", VATRate: 120})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = e.categories.CreateCategory(ctx, services.CreateCategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	categories, err := e.categories.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestShopInfo(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()

	info, err := e.shop.GetShopInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultVATRate, info.VATRate)
	assert.Equal(t, "Gestione Preventivi", info.Name)

	vat := 10.0
	saved, err := e.shop.SaveShopInfo(ctx, services.SaveShopInfoRequest{CompanyName: " ELETTRO-CALORE ", IBAN: "it60 x054", VATRate: &vat})
	require.NoError(t, err)
	assert.Equal(t, "ELETTRO-CALORE", saved.CompanyName)
	assert.Equal(t, "IT60X054", saved.IBAN)

	info, err = e.shop.GetShopInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, info.VATRate)

	bad := 101.0
	_, err = e.shop.SaveShopInfo(ctx, services.SaveShopInfoRequest{VATRate: &bad})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}
