// Package memstore is an in-process storage backend with the same contracts
// as the postgres repositories. It backs STORAGE_DRIVER=memory and the
// service and handler tests.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"gestionale/internal/models"

	"github.com/google/uuid"
)

type Store struct {
	mu      sync.RWMutex
	latency time.Duration
	now     func() time.Time

	shop       *models.ShopInfo
	categories map[uuid.UUID]models.Category
	products   map[uuid.UUID]models.Product
	customers  map[uuid.UUID]models.Customer
	sites      map[uuid.UUID]models.ConstructionSite
	purchases  map[uuid.UUID]models.Purchase
	quotes     map[uuid.UUID]models.Quote
	counters   map[int]int
	signatures map[string]time.Time
	users      map[uuid.UUID]models.User
	revoked    map[string]time.Time
}

type Option func(*Store)

// WithLatency delays every call, mimicking a remote database.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store holding only the uncategorized category.
func New(opts ...Option) *Store {
	s := &Store{
		now:        time.Now,
		categories: make(map[uuid.UUID]models.Category),
		products:   make(map[uuid.UUID]models.Product),
		customers:  make(map[uuid.UUID]models.Customer),
		sites:      make(map[uuid.UUID]models.ConstructionSite),
		purchases:  make(map[uuid.UUID]models.Purchase),
		quotes:     make(map[uuid.UUID]models.Quote),
		counters:   make(map[int]int),
		signatures: make(map[string]time.Time),
		users:      make(map[uuid.UUID]models.User),
		revoked:    make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.categories[models.UncategorizedCategoryID] = models.Category{
		ID:      models.UncategorizedCategoryID,
		Name:    models.UncategorizedCategoryName,
		VATRate: models.DefaultVATRate,
	}
	return s
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Store) Shop() *ShopStore { return &ShopStore{s} }
func (s *Store) Categories() *CategoryStore { return &CategoryStore{s} }
func (s *Store) Products() *ProductStore { return &ProductStore{s} }
func (s *Store) Customers() *CustomerStore { return &CustomerStore{s} }
func (s *Store) Sites() *SiteStore { return &SiteStore{s} }
func (s *Store) Purchases() *PurchaseStore { return &PurchaseStore{s} }
func (s *Store) Quotes() *QuoteStore { return &QuoteStore{s} }
func (s *Store) Documents() *DocumentStore { return &DocumentStore{s} }
func (s *Store) Users() *UserStore { return &UserStore{s} }
func (s *Store) Revocations() *RevocationStore { return &RevocationStore{s} }

func cloneSite(site models.ConstructionSite) models.ConstructionSite {
	site.Materials = slices.Clone(site.Materials)
	if site.Materials == nil {
		site.Materials = []models.SiteMaterial{}
	}
	return site
}

func clonePurchase(p models.Purchase) models.Purchase {
	p.Items = slices.Clone(p.Items)
	return p
}

func cloneQuote(q models.Quote) models.Quote {
	q.Items = slices.Clone(q.Items)
	if q.SiteID != nil {
		id := *q.SiteID
		q.SiteID = &id
	}
	return q
}

// newestFirst orders by document date, then by creation time.
func newestFirst(dateA, dateB string, createdA, createdB time.Time) int {
	if dateA != dateB {
		if dateA > dateB {
			return -1
		}
		return 1
	}
	return createdB.Compare(createdA)
}
