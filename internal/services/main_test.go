package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gestionale/internal/models"
	"gestionale/internal/repositories/memstore"
	"gestionale/internal/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAssistant records calls and returns canned answers.
type fakeAssistant struct {
	mu sync.Mutex

	extracted   *models.ExtractedDocument
	assignments []models.CategoryAssignment
	company     *models.CompanyIdentifiers
	err         error

	extractCalls    int
	categorizeCalls int
	lastMimeType    string
	lastCategories  []string
}

func (f *fakeAssistant) ExtractDocument(_ context.Context, mimeType string, _ []byte) (*models.ExtractedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extractCalls++
	f.lastMimeType = mimeType
	if f.extracted == nil {
		return nil, errors.New("no document configured")
	}
	doc := *f.extracted
	doc.Lines = append([]models.ExtractedLine(nil), f.extracted.Lines...)
	return &doc, nil
}

func (f *fakeAssistant) Categorize(_ context.Context, categories, _ []string) ([]models.CategoryAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categorizeCalls++
	f.lastCategories = categories
	return f.assignments, f.err
}

func (f *fakeAssistant) LookupCompany(_ context.Context, _ string) (*models.CompanyIdentifiers, error) {
	return f.company, f.err
}

type env struct {
	store      *memstore.Store
	shop       *services.ShopService
	categories *services.CategoryService
	products   *services.ProductService
	customers  *services.CustomerService
	sites      *services.SiteService
	purchases  *services.PurchaseService
	quotes     *services.QuoteService
	orders     *services.OrderService
	imports    *services.ImportService
}

func newEnv(t *testing.T, assistant services.Assistant) *env {
	t.Helper()
	st := memstore.New()
	shop := services.NewShopService(st.Shop(), "Gestione Preventivi")
	products := services.NewProductService(st.Products(), st.Categories())
	return &env{
		store:      st,
		shop:       shop,
		categories: services.NewCategoryService(st.Categories()),
		products:   products,
		customers:  services.NewCustomerService(st.Customers(), st.Sites(), st.Purchases(), st.Quotes(), assistant),
		sites:      services.NewSiteService(st.Sites(), st.Customers(), st.Products(), shop),
		purchases:  services.NewPurchaseService(st.Purchases(), st.Sites(), st.Customers(), st.Products()),
		quotes:     services.NewQuoteService(st.Quotes(), st.Customers(), st.Sites(), st.Products(), st.Categories(), shop),
		orders:     services.NewOrderService(st.Customers(), st.Sites(), st.Products(), shop),
		imports:    services.NewImportService(assistant, st.Categories(), st.Documents(), products, nil),
	}
}

func (e *env) category(t *testing.T, name string, margin, vat float64) *models.Category {
	t.Helper()
	c, err := e.categories.CreateCategory(t.Context(), services.CreateCategoryRequest{Name: name, ProfitMargin: margin, VATRate: vat})
	require.NoError(t, err)
	return c
}

func (e *env) product(t *testing.T, categoryID, code string, purchase, sale float64) *models.Product {
	t.Helper()
	p, created, err := e.products.AddProduct(t.Context(), services.ProductRequest{
		CategoryID:    categoryID,
		Code:          code,
		Name:          "Prodotto " + code,
		Quantity:      10,
		PurchasePrice: purchase,
		SalePrice:     sale,
	})
	require.NoError(t, err)
	require.True(t, created)
	return p
}

func (e *env) customer(t *testing.T, name, vat string) *models.Customer {
	t.Helper()
	c, err := e.customers.AddCustomer(t.Context(), services.CreateCustomerRequest{BusinessName: name, VATNumber: vat})
	require.NoError(t, err)
	return c
}

func (e *env) site(t *testing.T, customer *models.Customer, name string) *models.ConstructionSite {
	t.Helper()
	s, err := e.sites.AddSite(t.Context(), customer.ID, services.CreateSiteRequest{Name: name, Address: "Via Roma 1"})
	require.NoError(t, err)
	return s
}
