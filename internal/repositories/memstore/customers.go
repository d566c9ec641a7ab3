package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"gestionale/internal/models"
	"gestionale/internal/repositories"

	"github.com/google/uuid"
)

type CustomerStore struct{ s *Store }

func (st *CustomerStore) List(ctx context.Context) ([]models.Customer, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	out := make([]models.Customer, 0, len(st.s.customers))
	for _, c := range st.s.customers {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.Customer) int { return cmp.Compare(a.BusinessName, b.BusinessName) })
	return out, nil
}

func (st *CustomerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	c, ok := st.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (st *CustomerStore) FindByFiscalCodes(ctx context.Context, vatNumber, taxCode string) (*models.Customer, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	for _, c := range st.s.customers {
		if (vatNumber != "" && c.VATNumber == vatNumber) || (taxCode != "" && strings.EqualFold(c.TaxCode, taxCode)) {
			return &c, nil
		}
	}
	return nil, nil
}

func (st *CustomerStore) Create(ctx context.Context, customer *models.Customer) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	customer.Prepare()
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.customers[customer.ID]; ok {
		return repositories.ErrDuplicate
	}
	st.s.customers[customer.ID] = *customer
	return nil
}

type SiteStore struct{ s *Store }

func (st *SiteStore) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.ConstructionSite, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []models.ConstructionSite
	for _, site := range st.s.sites {
		if site.CustomerID == customerID {
			out = append(out, cloneSite(site))
		}
	}
	slices.SortFunc(out, func(a, b models.ConstructionSite) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (st *SiteStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ConstructionSite, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	site, ok := st.s.sites[id]
	if !ok {
		return nil, nil
	}
	site = cloneSite(site)
	return &site, nil
}

func (st *SiteStore) Create(ctx context.Context, site *models.ConstructionSite) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	site.Prepare()
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.sites[site.ID]; ok {
		return repositories.ErrDuplicate
	}
	st.s.sites[site.ID] = cloneSite(*site)
	return nil
}

func (st *SiteStore) UpdateMaterials(ctx context.Context, siteID uuid.UUID, materials []models.SiteMaterial) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	site, ok := st.s.sites[siteID]
	if !ok {
		return repositories.ErrNotFound
	}
	site.Materials = materials
	st.s.sites[siteID] = cloneSite(site)
	return nil
}

type PurchaseStore struct{ s *Store }

func (st *PurchaseStore) ListBySite(ctx context.Context, siteID uuid.UUID) ([]models.Purchase, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []models.Purchase
	for _, p := range st.s.purchases {
		if p.SiteID == siteID {
			out = append(out, clonePurchase(p))
		}
	}
	slices.SortFunc(out, func(a, b models.Purchase) int {
		return newestFirst(a.Date, b.Date, a.CreatedAt, b.CreatedAt)
	})
	return out, nil
}

func (st *PurchaseStore) Create(ctx context.Context, purchase *models.Purchase) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	purchase.Prepare()
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if _, ok := st.s.purchases[purchase.ID]; ok {
		return repositories.ErrDuplicate
	}
	st.s.purchases[purchase.ID] = clonePurchase(*purchase)
	return nil
}

type QuoteStore struct{ s *Store }

func (st *QuoteStore) ListBySite(ctx context.Context, siteID uuid.UUID) ([]models.Quote, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	var out []models.Quote
	for _, q := range st.s.quotes {
		if q.SiteID != nil && *q.SiteID == siteID {
			out = append(out, cloneQuote(q))
		}
	}
	slices.SortFunc(out, func(a, b models.Quote) int {
		return newestFirst(a.Date, b.Date, a.CreatedAt, b.CreatedAt)
	})
	return out, nil
}

func (st *QuoteStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if err := st.s.wait(ctx); err != nil {
		return nil, err
	}
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()
	q, ok := st.s.quotes[id]
	if !ok {
		return nil, nil
	}
	q = cloneQuote(q)
	return &q, nil
}

func (st *QuoteStore) Create(ctx context.Context, quote *models.Quote) error {
	if err := st.s.wait(ctx); err != nil {
		return err
	}
	quote.Prepare()
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	for _, q := range st.s.quotes {
		if q.ID == quote.ID || q.QuoteNumber == quote.QuoteNumber {
			return repositories.ErrDuplicate
		}
	}
	st.s.quotes[quote.ID] = cloneQuote(*quote)
	return nil
}

func (st *QuoteStore) NextSequence(ctx context.Context, year int) (int, error) {
	if err := st.s.wait(ctx); err != nil {
		return 0, err
	}
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.s.counters[year]++
	return st.s.counters[year], nil
}
