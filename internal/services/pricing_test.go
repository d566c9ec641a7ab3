package services_test

import (
	"testing"

	"gestionale/internal/models"
	"gestionale/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSuggestSalePrice(t *testing.T) {
	assert.Equal(t, 12.75, services.SuggestSalePrice(8.50, 50))
	assert.Equal(t, 8.80, services.SuggestSalePrice(5.50, 60))
	assert.Equal(t, 10.0, services.SuggestSalePrice(10, 0))
	assert.Equal(t, 0.0, services.SuggestSalePrice(-1, 30))
}

func TestMarkupPercent(t *testing.T) {
	assert.Equal(t, 50.0, services.MarkupPercent(8.50, 12.75))
	assert.Equal(t, 0.0, services.MarkupPercent(0, 12))
	assert.Equal(t, -50.0, services.MarkupPercent(10, 5))
}

func TestCalculateQuoteTotals(t *testing.T) {
	electric := models.Category{ID: uuid.New(), VATRate: 10}
	electronics := models.Category{ID: uuid.New(), VATRate: 22}
	categories := map[uuid.UUID]models.Category{electric.ID: electric, electronics.ID: electronics}

	cable := models.Product{CategoryID: electric.ID, SalePrice: 8.80}
	headphones := models.Product{CategoryID: electronics.ID, SalePrice: 58.50}
	orphan := models.Product{CategoryID: uuid.New(), SalePrice: 100}

	tests := []struct {
		name       string
		items      []models.QuoteItem
		defaultVAT float64
		includeVAT bool
		want       services.QuoteTotals
	}{
		{
			name:       "empty",
			includeVAT: true,
			want:       services.QuoteTotals{},
		},
		{
			name:       "mixed rates",
			items:      []models.QuoteItem{{Product: cable, Quantity: 15}, {Product: headphones, Quantity: 1}},
			defaultVAT: 22,
			includeVAT: true,
			want:       services.QuoteTotals{Subtotal: 190.50, Tax: 26.07, Total: 216.57, VATRate: 13.69},
		},
		{
			name:       "vat excluded",
			items:      []models.QuoteItem{{Product: headphones, Quantity: 2}},
			defaultVAT: 22,
			includeVAT: false,
			want:       services.QuoteTotals{Subtotal: 117, Total: 117},
		},
		{
			name:       "unknown category falls back to default",
			items:      []models.QuoteItem{{Product: orphan, Quantity: 1}},
			defaultVAT: 4,
			includeVAT: true,
			want:       services.QuoteTotals{Subtotal: 100, Tax: 4, Total: 104, VATRate: 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.CalculateQuoteTotals(tt.items, categories, tt.defaultVAT, tt.includeVAT)
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 0.001)
			assert.InDelta(t, tt.want.Tax, got.Tax, 0.001)
			assert.InDelta(t, tt.want.Total, got.Total, 0.001)
			assert.InDelta(t, tt.want.VATRate, got.VATRate, 0.001)
		})
	}
}

func TestPurchaseTotal(t *testing.T) {
	items := []models.PurchaseItem{
		{Product: models.Product{PurchasePrice: 5.50}, Quantity: 20},
		{Product: models.Product{PurchasePrice: 8.50}, Quantity: 5},
	}
	assert.InDelta(t, 152.50, services.PurchaseTotal(items), 0.001)
	assert.Equal(t, 0.0, services.PurchaseTotal(nil))
}
