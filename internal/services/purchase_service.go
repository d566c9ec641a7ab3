package services

import (
	"context"
	"fmt"
	"time"

	"gestionale/internal/models"

	"github.com/google/uuid"
)

type PurchaseService struct {
	purchases PurchaseStore
	sites     SiteStore
	customers CustomerStore
	products  ProductStore
	now       Clock
}

func NewPurchaseService(purchases PurchaseStore, sites SiteStore, customers CustomerStore, products ProductStore) *PurchaseService {
	return &PurchaseService{
		purchases: purchases,
		sites:     sites,
		customers: customers,
		products:  products,
		now:       time.Now,
	}
}

type CreatePurchaseRequest struct {
	CustomerID string        `json:"customer_id" binding:"required"`
	SiteID     string        `json:"site_id" binding:"required"`
	Date       string        `json:"date"`
	Items      []ItemRequest `json:"items" binding:"required"`
}

type PurchaseHistory struct {
	Purchases []models.Purchase `json:"purchases"`
	Total     float64           `json:"total"`
}

// ListPurchasesForSite returns the site's purchases newest first with the sum
// of their totals.
func (s *PurchaseService) ListPurchasesForSite(ctx context.Context, siteID uuid.UUID) (*PurchaseHistory, error) {
	purchases, err := s.purchases.ListBySite(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return &PurchaseHistory{
		Purchases: nonNil(purchases),
		Total:     sumPurchases(purchases),
	}, nil
}

func (s *PurchaseService) AddPurchase(ctx context.Context, req CreatePurchaseRequest) (*models.Purchase, error) {
	customerID, err := parseRequiredID(req.CustomerID, "customer_id")
	if err != nil {
		return nil, err
	}
	siteID, err := parseRequiredID(req.SiteID, "site_id")
	if err != nil {
		return nil, err
	}
	date, err := validDate(req.Date, s.now)
	if err != nil {
		return nil, err
	}
	if err := checkSiteOwnership(ctx, s.customers, s.sites, customerID, siteID); err != nil {
		return nil, err
	}

	products, quantities, err := resolveItems(ctx, s.products, req.Items)
	if err != nil {
		return nil, err
	}
	items := make([]models.PurchaseItem, len(products))
	for i := range products {
		items[i] = models.PurchaseItem{Product: products[i], Quantity: quantities[i]}
	}

	purchase := &models.Purchase{
		CustomerID: customerID,
		SiteID:     siteID,
		Date:       date,
		Items:      items,
		Total:      PurchaseTotal(items),
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}
	return purchase, nil
}

// checkSiteOwnership verifies the customer exists and, when siteID is set,
// that the site belongs to it.
func checkSiteOwnership(ctx context.Context, customers CustomerStore, sites SiteStore, customerID, siteID uuid.UUID) error {
	customer, err := customers.GetByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return invalid("cliente non trovato")
	}
	if siteID == uuid.Nil {
		return nil
	}
	site, err := sites.GetByID(ctx, siteID)
	if err != nil {
		return fmt.Errorf("failed to get site: %w", err)
	}
	if site == nil {
		return invalid("cantiere non trovato")
	}
	if site.CustomerID != customerID {
		return invalid("il cantiere non appartiene al cliente selezionato")
	}
	return nil
}
