package seed_test

import (
	"testing"

	"gestionale/internal/models"
	"gestionale/internal/repositories/memstore"
	"gestionale/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storesOf(st *memstore.Store) seed.Stores {
	return seed.Stores{
		Shop:       st.Shop(),
		Categories: st.Categories(),
		Products:   st.Products(),
		Customers:  st.Customers(),
		Sites:      st.Sites(),
		Purchases:  st.Purchases(),
		Quotes:     st.Quotes(),
	}
}

func TestDefaultFixturesDecode(t *testing.T) {
	f, err := seed.Default()
	require.NoError(t, err)
	assert.Equal(t, "ELETTRO-CALORE IMPIANTI", f.Shop.CompanyName)
	assert.Len(t, f.Categories, 3)
	assert.Len(t, f.Products, 5)
	assert.Len(t, f.Customers, 2)
	assert.Len(t, f.Sites, 3)
	assert.Len(t, f.Purchases, 2)
	assert.Len(t, f.Quotes, 2)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := seed.Load([]byte("shop:\n  colour: red\n"))
	require.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	ctx := t.Context()
	st := memstore.New()
	f, err := seed.Default()
	require.NoError(t, err)

	summary, err := seed.Apply(ctx, storesOf(st), f, nil)
	require.NoError(t, err)
	assert.Equal(t, seed.Summary{Categories: 3, Products: 5, Customers: 2, Sites: 3, Purchases: 2, Quotes: 2}, *summary)

	categories, err := st.Categories().List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	cable, err := st.Products().FindByCode(ctx, "cav-01")
	require.NoError(t, err)
	require.NotNil(t, cable)
	assert.Equal(t, "Cavo HDMI 2m", cable.Name)

	customer, err := st.Customers().FindByFiscalCodes(ctx, "12345678901", "")
	require.NoError(t, err)
	require.NotNil(t, customer)
	sites, err := st.Sites().ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, sites, 2)

	var renovation = sites[0]
	if renovation.Name != "Ristrutturazione Appartamento" {
		renovation = sites[1]
	}
	purchases, err := st.Purchases().ListBySite(ctx, renovation.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 2)
	assert.Equal(t, "2023-10-18", purchases[0].Date)
	assert.InDelta(t, 42.50, purchases[0].Total, 0.001)
	assert.InDelta(t, 110.00, purchases[1].Total, 0.001)

	quotes, err := st.Quotes().ListBySite(ctx, renovation.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	q := quotes[0]
	assert.Equal(t, "PREV-2024-001", q.QuoteNumber)
	// 15 cables at 8.80 with 10% VAT plus headphones at 58.50 with 22%.
	assert.InDelta(t, 190.50, q.Subtotal, 0.001)
	assert.InDelta(t, 26.07, q.Tax, 0.001)
	assert.InDelta(t, 216.57, q.Total, 0.001)

	next, err := st.Quotes().NextSequence(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestApplyTwiceDoesNotDuplicate(t *testing.T) {
	ctx := t.Context()
	st := memstore.New()
	f, err := seed.Default()
	require.NoError(t, err)

	_, err = seed.Apply(ctx, storesOf(st), f, nil)
	require.NoError(t, err)
	summary, err := seed.Apply(ctx, storesOf(st), f, nil)
	require.NoError(t, err)
	assert.Equal(t, seed.Summary{}, *summary)

	products, err := st.Products().List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
	customers, err := st.Customers().List(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 2)
}

func TestApplyKeepsOperatorEdits(t *testing.T) {
	ctx := t.Context()
	st := memstore.New()
	f, err := seed.Default()
	require.NoError(t, err)

	_, err = seed.Apply(ctx, storesOf(st), f, nil)
	require.NoError(t, err)

	header := models.ShopInfo{
		CompanyName:       "OPERATORE SRL",
		Description:       "VIA DEL LAVORO 9, BOLOGNA",
		IBAN:              "IT02L1234512345123456789012",
		PaymentConditions: "Rimessa diretta",
		VATRate:           10,
	}
	require.NoError(t, st.Shop().Save(ctx, &header))

	cable, err := st.Products().FindByCode(ctx, "CAV-01")
	require.NoError(t, err)
	require.NotNil(t, cable)
	cable.Name = "Cavo HDMI 2m schermato"
	cable.SalePrice = 9.9
	require.NoError(t, st.Products().Update(ctx, cable))

	_, err = seed.Apply(ctx, storesOf(st), f, nil)
	require.NoError(t, err)

	got, err := st.Shop().Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, header, *got)

	cable, err = st.Products().FindByCode(ctx, "CAV-01")
	require.NoError(t, err)
	assert.Equal(t, "Cavo HDMI 2m schermato", cable.Name)
	assert.InDelta(t, 9.9, cable.SalePrice, 0.001)
}

func TestApplyFillsEmptyShopHeader(t *testing.T) {
	ctx := t.Context()
	st := memstore.New()
	require.NoError(t, st.Shop().Save(ctx, &models.ShopInfo{}))

	f, err := seed.Default()
	require.NoError(t, err)
	_, err = seed.Apply(ctx, storesOf(st), f, nil)
	require.NoError(t, err)

	got, err := st.Shop().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ELETTRO-CALORE IMPIANTI", got.CompanyName)
}

func TestApplyUnknownReference(t *testing.T) {
	f := &seed.Fixtures{
		Products: []seed.ProductFixture{{Key: "p", Category: "missing", Code: "X", Name: "x"}},
	}
	_, err := seed.Apply(t.Context(), storesOf(memstore.New()), f, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown category "missing"`)
}
