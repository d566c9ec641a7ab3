package services

import (
	"math"

	"gestionale/internal/models"

	"github.com/google/uuid"
)

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// SuggestSalePrice applies a category margin to a purchase price.
func SuggestSalePrice(purchasePrice, marginPercent float64) float64 {
	if purchasePrice < 0 {
		return 0
	}
	return RoundCents(purchasePrice * (1 + marginPercent/100))
}

// MarkupPercent is the markup of sale over purchase, 0 when the purchase
// price is not positive.
func MarkupPercent(purchasePrice, salePrice float64) float64 {
	if purchasePrice <= 0 {
		return 0
	}
	return RoundCents((salePrice - purchasePrice) / purchasePrice * 100)
}

type QuoteTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	VATRate  float64 `json:"vat_rate"`
}

// CalculateQuoteTotals sums sale prices and applies each line's category VAT
// rate, falling back to defaultVAT for products whose category is unknown.
func CalculateQuoteTotals(items []models.QuoteItem, categories map[uuid.UUID]models.Category, defaultVAT float64, includeVAT bool) QuoteTotals {
	var subtotal, tax float64
	for _, item := range items {
		line := item.Product.SalePrice * item.Quantity
		subtotal += line
		if !includeVAT {
			continue
		}
		rate := defaultVAT
		if cat, ok := categories[item.Product.CategoryID]; ok {
			rate = cat.VATRate
		}
		tax += line * rate / 100
	}

	totals := QuoteTotals{
		Subtotal: RoundCents(subtotal),
		Tax:      RoundCents(tax),
	}
	totals.Total = RoundCents(totals.Subtotal + totals.Tax)
	if totals.Subtotal > 0 {
		totals.VATRate = RoundCents(totals.Tax / totals.Subtotal * 100)
	}
	return totals
}

// PurchaseTotal sums purchase prices, used for purchases and material orders.
func PurchaseTotal(items []models.PurchaseItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Product.PurchasePrice * item.Quantity
	}
	return RoundCents(total)
}

func categoryIndex(categories []models.Category) map[uuid.UUID]models.Category {
	idx := make(map[uuid.UUID]models.Category, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}
