// Package seed loads demo fixtures into any storage backend.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultFixtures []byte

// Default returns the embedded demo data.
func Default() (*Fixtures, error) {
	return Load(defaultFixtures)
}

type Fixtures struct {
	Shop       ShopFixture       `yaml:"shop"`
	Categories []CategoryFixture `yaml:"categories"`
	Products   []ProductFixture  `yaml:"products"`
	Customers  []CustomerFixture `yaml:"customers"`
	Sites      []SiteFixture     `yaml:"sites"`
	Purchases  []PurchaseFixture `yaml:"purchases"`
	Quotes     []QuoteFixture    `yaml:"quotes"`
}

type ShopFixture struct {
	CompanyName       string  `yaml:"company_name"`
	Description       string  `yaml:"description"`
	CodiceFiscale     string  `yaml:"codice_fiscale"`
	IBAN              string  `yaml:"iban"`
	PaymentConditions string  `yaml:"payment_conditions"`
	VATRate           float64 `yaml:"vat_rate"`
}

type CategoryFixture struct {
	Key          string  `yaml:"key"`
	Name         string  `yaml:"name"`
	ProfitMargin float64 `yaml:"profit_margin"`
	VATRate      float64 `yaml:"vat_rate"`
}

type ProductFixture struct {
	Key           string  `yaml:"key"`
	Category      string  `yaml:"category"`
	Code          string  `yaml:"code"`
	Name          string  `yaml:"name"`
	Quantity      float64 `yaml:"quantity"`
	PurchasePrice float64 `yaml:"purchase_price"`
	SalePrice     float64 `yaml:"sale_price"`
}

type CustomerFixture struct {
	Key          string `yaml:"key"`
	BusinessName string `yaml:"business_name"`
	VATNumber    string `yaml:"vat_number"`
	TaxCode      string `yaml:"tax_code"`
	Address      string `yaml:"address"`
	City         string `yaml:"city"`
	PostalCode   string `yaml:"postal_code"`
	Province     string `yaml:"province"`
	Email        string `yaml:"email"`
	Phone        string `yaml:"phone"`
}

type MaterialFixture struct {
	Product   string  `yaml:"product"`
	Quantity  float64 `yaml:"quantity"`
	Purchased bool    `yaml:"purchased"`
}

type SiteFixture struct {
	Key       string            `yaml:"key"`
	Customer  string            `yaml:"customer"`
	Name      string            `yaml:"name"`
	Address   string            `yaml:"address"`
	Materials []MaterialFixture `yaml:"materials"`
}

type ItemFixture struct {
	Product  string  `yaml:"product"`
	Quantity float64 `yaml:"quantity"`
}

type PurchaseFixture struct {
	Customer string        `yaml:"customer"`
	Site     string        `yaml:"site"`
	Date     string        `yaml:"date"`
	Items    []ItemFixture `yaml:"items"`
}

type QuoteFixture struct {
	Customer   string        `yaml:"customer"`
	Site       string        `yaml:"site"`
	Date       string        `yaml:"date"`
	Notes      string        `yaml:"notes"`
	ExcludeVAT bool          `yaml:"exclude_vat"`
	Items      []ItemFixture `yaml:"items"`
}

// Load decodes fixtures, rejecting unknown fields.
func Load(data []byte) (*Fixtures, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	return &f, nil
}

// Stores is the set of backends the fixtures are written to.
type Stores struct {
	Shop       services.ShopStore
	Categories services.CategoryStore
	Products   services.ProductStore
	Customers  services.CustomerStore
	Sites      services.SiteStore
	Purchases  services.PurchaseStore
	Quotes     services.QuoteStore
}

// Summary counts the records created by Apply.
type Summary struct {
	Categories int
	Products   int
	Customers  int
	Sites      int
	Purchases  int
	Quotes     int
}

type loader struct {
	stores     Stores
	log        *zap.Logger
	categories map[string]models.Category
	products   map[string]models.Product
	customers  map[string]uuid.UUID
	fresh      map[string]bool
	sites      map[string]uuid.UUID
	summary    Summary
}

// Apply writes the fixtures. Categories, products and customers that already
// exist are reused, and the sites, purchases and quotes of an existing
// customer are not loaded again. A shop header that was already saved is
// left alone, so running it twice is harmless.
func Apply(ctx context.Context, stores Stores, f *Fixtures, log *zap.Logger) (*Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := &loader{
		stores:     stores,
		log:        log,
		categories: map[string]models.Category{},
		products:   map[string]models.Product{},
		customers:  map[string]uuid.UUID{},
		fresh:      map[string]bool{},
		sites:      map[string]uuid.UUID{},
	}

	steps := []struct {
		name string
		fn   func(context.Context, *Fixtures) error
	}{
		{"shop", l.shop},
		{"categories", l.loadCategories},
		{"products", l.loadProducts},
		{"customers", l.loadCustomers},
		{"sites", l.loadSites},
		{"purchases", l.loadPurchases},
		{"quotes", l.loadQuotes},
	}
	for _, step := range steps {
		if err := step.fn(ctx, f); err != nil {
			return nil, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}
	log.Info("seed applied",
		zap.Int("categories", l.summary.Categories),
		zap.Int("products", l.summary.Products),
		zap.Int("customers", l.summary.Customers),
		zap.Int("sites", l.summary.Sites),
		zap.Int("purchases", l.summary.Purchases),
		zap.Int("quotes", l.summary.Quotes),
	)
	return &l.summary, nil
}

// shop writes the fixture header only when none was saved yet; the header
// belongs to the operator afterwards.
func (l *loader) shop(ctx context.Context, f *Fixtures) error {
	current, err := l.stores.Shop.Get(ctx)
	if err != nil {
		return err
	}
	if current != nil && *current != (models.ShopInfo{}) {
		return nil
	}
	vat := f.Shop.VATRate
	if vat <= 0 {
		vat = models.DefaultVATRate
	}
	return l.stores.Shop.Save(ctx, &models.ShopInfo{
		CompanyName:       f.Shop.CompanyName,
		Description:       f.Shop.Description,
		CodiceFiscale:     f.Shop.CodiceFiscale,
		IBAN:              f.Shop.IBAN,
		PaymentConditions: f.Shop.PaymentConditions,
		VATRate:           vat,
	})
}

func (l *loader) loadCategories(ctx context.Context, f *Fixtures) error {
	for _, c := range f.Categories {
		existing, err := l.stores.Categories.FindByName(ctx, c.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			l.categories[c.Key] = *existing
			continue
		}
		category := models.Category{Name: c.Name, ProfitMargin: c.ProfitMargin, VATRate: c.VATRate}
		if err := l.stores.Categories.Create(ctx, &category); err != nil {
			return fmt.Errorf("%s: %w", c.Key, err)
		}
		l.categories[c.Key] = category
		l.summary.Categories++
	}
	return nil
}

func (l *loader) loadProducts(ctx context.Context, f *Fixtures) error {
	for _, p := range f.Products {
		existing, err := l.stores.Products.FindByCode(ctx, p.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			l.products[p.Key] = *existing
			continue
		}
		product := models.Product{
			CategoryID:    models.UncategorizedCategoryID,
			Code:          p.Code,
			Name:          p.Name,
			Quantity:      p.Quantity,
			PurchasePrice: services.RoundCents(p.PurchasePrice),
			SalePrice:     services.RoundCents(p.SalePrice),
		}
		if p.Category != "" {
			category, ok := l.categories[p.Category]
			if !ok {
				return fmt.Errorf("%s: unknown category %q", p.Key, p.Category)
			}
			product.CategoryID = category.ID
		}
		if err := l.stores.Products.Create(ctx, &product); err != nil {
			return fmt.Errorf("%s: %w", p.Key, err)
		}
		l.products[p.Key] = product
		l.summary.Products++
	}
	return nil
}

func (l *loader) loadCustomers(ctx context.Context, f *Fixtures) error {
	for _, c := range f.Customers {
		existing, err := l.stores.Customers.FindByFiscalCodes(ctx, c.VATNumber, c.TaxCode)
		if err != nil {
			return err
		}
		if existing != nil {
			l.customers[c.Key] = existing.ID
			continue
		}
		customer := models.Customer{
			BusinessName: c.BusinessName,
			VATNumber:    c.VATNumber,
			TaxCode:      c.TaxCode,
			Address:      c.Address,
			City:         c.City,
			PostalCode:   c.PostalCode,
			Province:     c.Province,
			Email:        c.Email,
			Phone:        c.Phone,
		}
		if err := l.stores.Customers.Create(ctx, &customer); err != nil {
			return fmt.Errorf("%s: %w", c.Key, err)
		}
		l.customers[c.Key] = customer.ID
		l.fresh[c.Key] = true
		l.summary.Customers++
	}
	return nil
}

func (l *loader) loadSites(ctx context.Context, f *Fixtures) error {
	for _, s := range f.Sites {
		customerID, ok := l.customers[s.Customer]
		if !ok {
			return fmt.Errorf("%s: unknown customer %q", s.Key, s.Customer)
		}
		if !l.fresh[s.Customer] {
			continue
		}
		materials := make([]models.SiteMaterial, 0, len(s.Materials))
		for _, m := range s.Materials {
			product, ok := l.products[m.Product]
			if !ok {
				return fmt.Errorf("%s: unknown product %q", s.Key, m.Product)
			}
			materials = append(materials, models.SiteMaterial{
				ProductID: product.ID,
				Quantity:  m.Quantity,
				Purchased: m.Purchased,
			})
		}
		site := models.ConstructionSite{
			CustomerID: customerID,
			Name:       s.Name,
			Address:    s.Address,
			Materials:  materials,
		}
		if err := l.stores.Sites.Create(ctx, &site); err != nil {
			return fmt.Errorf("%s: %w", s.Key, err)
		}
		l.sites[s.Key] = site.ID
		l.summary.Sites++
	}
	return nil
}

func (l *loader) loadPurchases(ctx context.Context, f *Fixtures) error {
	for i, p := range f.Purchases {
		if !l.fresh[p.Customer] {
			continue
		}
		siteID, ok := l.sites[p.Site]
		if !ok {
			return fmt.Errorf("purchase %d: unknown site %q", i+1, p.Site)
		}
		items, err := l.purchaseItems(p.Items)
		if err != nil {
			return fmt.Errorf("purchase %d: %w", i+1, err)
		}
		purchase := models.Purchase{
			CustomerID: l.customers[p.Customer],
			SiteID:     siteID,
			Date:       p.Date,
			Items:      items,
			Total:      services.PurchaseTotal(items),
		}
		if err := l.stores.Purchases.Create(ctx, &purchase); err != nil {
			return fmt.Errorf("purchase %d: %w", i+1, err)
		}
		l.summary.Purchases++
	}
	return nil
}

func (l *loader) loadQuotes(ctx context.Context, f *Fixtures) error {
	index := make(map[uuid.UUID]models.Category, len(l.categories))
	for _, c := range l.categories {
		index[c.ID] = c
	}
	defaultVAT := f.Shop.VATRate
	if defaultVAT <= 0 {
		defaultVAT = models.DefaultVATRate
	}

	for i, q := range f.Quotes {
		if !l.fresh[q.Customer] {
			continue
		}
		date, err := time.Parse(models.DateLayout, q.Date)
		if err != nil {
			return fmt.Errorf("quote %d: %w", i+1, err)
		}
		purchaseItems, err := l.purchaseItems(q.Items)
		if err != nil {
			return fmt.Errorf("quote %d: %w", i+1, err)
		}
		items := make([]models.QuoteItem, len(purchaseItems))
		for j, it := range purchaseItems {
			items[j] = models.QuoteItem{Product: it.Product, Quantity: it.Quantity}
		}

		totals := services.CalculateQuoteTotals(items, index, defaultVAT, !q.ExcludeVAT)
		seq, err := l.stores.Quotes.NextSequence(ctx, date.Year())
		if err != nil {
			return fmt.Errorf("quote %d: %w", i+1, err)
		}
		quote := models.Quote{
			QuoteNumber: services.FormatQuoteNumber(date.Year(), seq),
			CustomerID:  l.customers[q.Customer],
			Date:        q.Date,
			Items:       items,
			Notes:       q.Notes,
			IncludeVAT:  !q.ExcludeVAT,
			Subtotal:    totals.Subtotal,
			Tax:         totals.Tax,
			Total:       totals.Total,
			VATRate:     totals.VATRate,
		}
		if q.Site != "" {
			siteID, ok := l.sites[q.Site]
			if !ok {
				return fmt.Errorf("quote %d: unknown site %q", i+1, q.Site)
			}
			quote.SiteID = &siteID
		}
		if err := l.stores.Quotes.Create(ctx, &quote); err != nil {
			return fmt.Errorf("quote %d: %w", i+1, err)
		}
		l.summary.Quotes++
	}
	return nil
}

func (l *loader) purchaseItems(fixtures []ItemFixture) ([]models.PurchaseItem, error) {
	items := make([]models.PurchaseItem, 0, len(fixtures))
	for _, it := range fixtures {
		product, ok := l.products[it.Product]
		if !ok {
			return nil, fmt.Errorf("unknown product %q", it.Product)
		}
		items = append(items, models.PurchaseItem{Product: product, Quantity: it.Quantity})
	}
	return items, nil
}
