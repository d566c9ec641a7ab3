package services

import (
	"context"
	"fmt"
	"strings"

	"gestionale/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type CustomerService struct {
	customers CustomerStore
	sites     SiteStore
	purchases PurchaseStore
	quotes    QuoteStore
	assistant Assistant
}

func NewCustomerService(customers CustomerStore, sites SiteStore, purchases PurchaseStore, quotes QuoteStore, assistant Assistant) *CustomerService {
	return &CustomerService{
		customers: customers,
		sites:     sites,
		purchases: purchases,
		quotes:    quotes,
		assistant: assistant,
	}
}

type CreateCustomerRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
	VATNumber    string `json:"vat_number"`
	TaxCode      string `json:"tax_code"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Province     string `json:"province"`
	Email        string `json:"email" binding:"omitempty,email"`
	Phone        string `json:"phone"`
}

// SiteOverview groups a construction site with its documents.
type SiteOverview struct {
	Site          models.ConstructionSite `json:"site"`
	Quotes        []models.Quote          `json:"quotes"`
	Purchases     []models.Purchase       `json:"purchases"`
	PurchaseTotal float64                 `json:"purchase_total"`
}

type CustomerOverview struct {
	Customer models.Customer `json:"customer"`
	Sites    []SiteOverview  `json:"sites"`
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, notFound("Cliente non trovato")
	}
	return customer, nil
}

// AddCustomer rejects a customer sharing a non-empty P.IVA or codice fiscale
// with an existing one.
func (s *CustomerService) AddCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error) {
	customer := &models.Customer{
		BusinessName: strings.TrimSpace(req.BusinessName),
		VATNumber:    strings.TrimSpace(req.VATNumber),
		TaxCode:      strings.ToUpper(strings.TrimSpace(req.TaxCode)),
		Address:      strings.TrimSpace(req.Address),
		City:         strings.TrimSpace(req.City),
		PostalCode:   strings.TrimSpace(req.PostalCode),
		Province:     strings.ToUpper(strings.TrimSpace(req.Province)),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
	}
	if customer.BusinessName == "" {
		return nil, invalid("ragione sociale obbligatoria")
	}

	if customer.VATNumber != "" || customer.TaxCode != "" {
		existing, err := s.customers.FindByFiscalCodes(ctx, customer.VATNumber, customer.TaxCode)
		if err != nil {
			return nil, fmt.Errorf("failed to check fiscal codes: %w", err)
		}
		if existing != nil {
			return nil, conflict("Cliente con questa P.IVA o Codice Fiscale già esistente.")
		}
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, fromStore(err, "")
	}
	return customer, nil
}

// AutofillCustomer asks the assistant for the fiscal codes of a company.
func (s *CustomerService) AutofillCustomer(ctx context.Context, businessName string) (*models.CompanyIdentifiers, error) {
	name := strings.TrimSpace(businessName)
	if name == "" {
		return nil, invalid("Inserisci prima la Ragione Sociale.")
	}
	if s.assistant == nil {
		return nil, ErrAIUnavailable
	}
	ids, err := s.assistant.LookupCompany(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("company lookup failed: %w", err)
	}
	if ids == nil {
		ids = &models.CompanyIdentifiers{}
	}
	ids.VATNumber = strings.TrimSpace(ids.VATNumber)
	ids.TaxCode = strings.ToUpper(strings.TrimSpace(ids.TaxCode))
	return ids, nil
}

// CustomerOverview loads every site of the customer together with its quotes
// and purchases. Sites are fetched concurrently.
func (s *CustomerService) CustomerOverview(ctx context.Context, id uuid.UUID) (*CustomerOverview, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	sites, err := s.sites.ListByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	overview := &CustomerOverview{
		Customer: *customer,
		Sites:    make([]SiteOverview, len(sites)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, site := range sites {
		overview.Sites[i].Site = site
		g.Go(func() error {
			quotes, err := s.quotes.ListBySite(gctx, site.ID)
			if err != nil {
				return fmt.Errorf("failed to list quotes of site %s: %w", site.ID, err)
			}
			purchases, err := s.purchases.ListBySite(gctx, site.ID)
			if err != nil {
				return fmt.Errorf("failed to list purchases of site %s: %w", site.ID, err)
			}
			overview.Sites[i].Quotes = nonNil(quotes)
			overview.Sites[i].Purchases = nonNil(purchases)
			overview.Sites[i].PurchaseTotal = sumPurchases(purchases)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

func sumPurchases(purchases []models.Purchase) float64 {
	var total float64
	for _, p := range purchases {
		total += p.Total
	}
	return RoundCents(total)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
