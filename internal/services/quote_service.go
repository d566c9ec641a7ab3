package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/pdf"

	"github.com/google/uuid"
)

type QuoteService struct {
	quotes     QuoteStore
	customers  CustomerStore
	sites      SiteStore
	products   ProductStore
	categories CategoryStore
	shop       *ShopService
	now        Clock
}

func NewQuoteService(quotes QuoteStore, customers CustomerStore, sites SiteStore, products ProductStore, categories CategoryStore, shop *ShopService) *QuoteService {
	return &QuoteService{
		quotes:     quotes,
		customers:  customers,
		sites:      sites,
		products:   products,
		categories: categories,
		shop:       shop,
		now:        time.Now,
	}
}

type QuoteRequest struct {
	CustomerID string        `json:"customer_id"`
	SiteID     string        `json:"site_id"`
	Date       string        `json:"date"`
	Items      []ItemRequest `json:"items"`
	Notes      string        `json:"notes"`
	IncludeVAT *bool         `json:"include_vat"`
}

func (r QuoteRequest) includeVAT() bool {
	return r.IncludeVAT == nil || *r.IncludeVAT
}

type QuotePreview struct {
	Items []models.QuoteItem `json:"items"`
	QuoteTotals
}

// FormatQuoteNumber renders PREV-<year>-<seq> with at least three digits.
func FormatQuoteNumber(year, seq int) string {
	return fmt.Sprintf("PREV-%d-%03d", year, seq)
}

// PreviewQuote prices the items without saving anything.
func (s *QuoteService) PreviewQuote(ctx context.Context, req QuoteRequest) (*QuotePreview, error) {
	if len(req.Items) == 0 {
		return &QuotePreview{Items: []models.QuoteItem{}}, nil
	}
	items, totals, err := s.price(ctx, req)
	if err != nil {
		return nil, err
	}
	return &QuotePreview{Items: items, QuoteTotals: totals}, nil
}

func (s *QuoteService) SaveQuote(ctx context.Context, req QuoteRequest) (*models.Quote, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, invalid("Seleziona un cliente prima di salvare.")
	}
	customerID, err := parseRequiredID(req.CustomerID, "customer_id")
	if err != nil {
		return nil, err
	}
	siteID, err := parseOptionalID(req.SiteID, "site_id")
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, invalid("Aggiungi almeno un prodotto al preventivo.")
	}
	date, err := validDate(req.Date, s.now)
	if err != nil {
		return nil, err
	}
	if err := checkSiteOwnership(ctx, s.customers, s.sites, customerID, siteID); err != nil {
		return nil, err
	}

	items, totals, err := s.price(ctx, req)
	if err != nil {
		return nil, err
	}

	year := s.now().Year()
	seq, err := s.quotes.NextSequence(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate quote number: %w", err)
	}

	quote := &models.Quote{
		QuoteNumber: FormatQuoteNumber(year, seq),
		CustomerID:  customerID,
		Date:        date,
		Items:       items,
		Notes:       strings.TrimSpace(req.Notes),
		IncludeVAT:  req.includeVAT(),
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		Total:       totals.Total,
		VATRate:     totals.VATRate,
	}
	if siteID != uuid.Nil {
		quote.SiteID = &siteID
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, fromStore(err, "")
	}
	return quote, nil
}

func (s *QuoteService) price(ctx context.Context, req QuoteRequest) ([]models.QuoteItem, QuoteTotals, error) {
	products, quantities, err := resolveItems(ctx, s.products, req.Items)
	if err != nil {
		return nil, QuoteTotals{}, err
	}
	items := make([]models.QuoteItem, len(products))
	for i := range products {
		items[i] = models.QuoteItem{Product: products[i], Quantity: quantities[i]}
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, QuoteTotals{}, fmt.Errorf("failed to list categories: %w", err)
	}
	defaultVAT, err := s.shop.defaultVAT(ctx)
	if err != nil {
		return nil, QuoteTotals{}, err
	}
	return items, CalculateQuoteTotals(items, categoryIndex(categories), defaultVAT, req.includeVAT()), nil
}

func (s *QuoteService) ListQuotesForSite(ctx context.Context, siteID uuid.UUID) ([]models.Quote, error) {
	quotes, err := s.quotes.ListBySite(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return nonNil(quotes), nil
}

func (s *QuoteService) GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if quote == nil {
		return nil, notFound("Preventivo non trovato")
	}
	return quote, nil
}

// QuotePDF renders a saved quote.
func (s *QuoteService) QuotePDF(ctx context.Context, id uuid.UUID) (*Document, error) {
	quote, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, quote.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, notFound("Cliente non trovato")
	}
	var site *models.ConstructionSite
	if quote.SiteID != nil {
		if site, err = s.sites.GetByID(ctx, *quote.SiteID); err != nil {
			return nil, fmt.Errorf("failed to get site: %w", err)
		}
	}
	shop, err := s.shop.GetShopInfo(ctx)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("Preventivo-%s.pdf", safeFilename(quote.QuoteNumber))
	return pdfDocument(filename, func(buf *bytes.Buffer) error {
		return pdf.Quote(buf, quote, customer, site, shop)
	})
}
