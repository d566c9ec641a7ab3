package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/pdf"

	"github.com/google/uuid"
)

type OrderService struct {
	customers CustomerStore
	sites     SiteStore
	products  ProductStore
	shop      *ShopService
	now       Clock
}

func NewOrderService(customers CustomerStore, sites SiteStore, products ProductStore, shop *ShopService) *OrderService {
	return &OrderService{
		customers: customers,
		sites:     sites,
		products:  products,
		shop:      shop,
		now:       time.Now,
	}
}

type OrderRequest struct {
	CustomerID string        `json:"customer_id"`
	SiteID     string        `json:"site_id"`
	Date       string        `json:"date"`
	Items      []ItemRequest `json:"items"`
}

// BuildOrder validates the request and prices it at purchase cost.
func (s *OrderService) BuildOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	customerID, err := parseRequiredID(req.CustomerID, "customer_id")
	if err != nil {
		return nil, invalid("Seleziona un cliente prima di continuare.")
	}
	siteID, err := parseOptionalID(req.SiteID, "site_id")
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, invalid("Aggiungi almeno un prodotto all'ordine.")
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

	order := &models.Order{
		CustomerID: customerID,
		Date:       date,
		Items:      items,
		Total:      PurchaseTotal(items),
	}
	if siteID != uuid.Nil {
		order.SiteID = &siteID
	}
	return order, nil
}

// OrderPDF renders a material order addressed to the site, or to the
// customer when no site is given.
func (s *OrderService) OrderPDF(ctx context.Context, req OrderRequest) (*Document, error) {
	order, err := s.BuildOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, order.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	var site *models.ConstructionSite
	if order.SiteID != nil {
		if site, err = s.sites.GetByID(ctx, *order.SiteID); err != nil {
			return nil, fmt.Errorf("failed to get site: %w", err)
		}
	}
	shop, err := s.shop.GetShopInfo(ctx)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("Ordine-%s.pdf", order.Date)
	return pdfDocument(filename, func(buf *bytes.Buffer) error {
		return pdf.Order(buf, order, customer, site, shop)
	})
}
