package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"gestionale/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtures() (*models.Customer, *models.ConstructionSite, *models.ShopInfo) {
	customer := &models.Customer{
		ID:           uuid.New(),
		BusinessName: "Mario Rossi SRL",
		VATNumber:    "12345678901",
		Address:      "Via Roma 1",
		City:         "Milano",
		PostalCode:   "20121",
		Province:     "MI",
	}
	site := &models.ConstructionSite{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		Name:       "Ristrutturazione Appartamento",
		Address:    "Via Garibaldi 5, Milano",
	}
	shop := &models.ShopInfo{
		Name:              "Gestione Preventivi",
		CompanyName:       "ELETTRO-CALORE IMPIANTI",
		Description:       "VIA ELETTRICA 123, ROMA",
		IBAN:              "IT60X0542811101000000123456",
		PaymentConditions: "Bonifico a 30 giorni",
		VATRate:           22,
	}
	return customer, site, shop
}

func items(n int) []models.QuoteItem {
	out := make([]models.QuoteItem, n)
	for i := range out {
		out[i] = models.QuoteItem{
			Product: models.Product{
				Code:      fmt.Sprintf("COD-%03d", i),
				Name:      "Prodotto con una descrizione abbastanza lunga da andare a capo nella colonna",
				SalePrice: 12.5,
			},
			Quantity: float64(i + 1),
		}
	}
	return out
}

func TestQuote(t *testing.T) {
	customer, site, shop := fixtures()
	q := &models.Quote{
		QuoteNumber: "PREV-2024-001",
		CustomerID:  customer.ID,
		Date:        "2024-05-10",
		Items:       items(3),
		Notes:       "Lavori di ristrutturazione impianto elettrico.",
		IncludeVAT:  true,
		Subtotal:    75,
		Tax:         16.5,
		Total:       91.5,
		VATRate:     22,
	}

	var buf bytes.Buffer
	require.NoError(t, Quote(&buf, q, customer, site, shop))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	// No site, no VAT, long enough to need several pages.
	q.Items = items(80)
	q.IncludeVAT = false
	buf.Reset()
	require.NoError(t, Quote(&buf, q, customer, nil, shop))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestQuoteNotesKeepClearOfFooter(t *testing.T) {
	customer, site, shop := fixtures()
	q := &models.Quote{
		QuoteNumber: "PREV-2024-002",
		Date:        "2024-06-01",
		Items:       items(3),
		Notes:       "Nota breve.",
		IncludeVAT:  true,
	}

	d := layoutQuote(q, customer, site, shop)
	require.NoError(t, d.Error())
	assert.Equal(t, 1, d.PageCount())

	q.Notes = strings.Repeat("Lavori da eseguire in orario concordato con il cliente, materiali esclusi dove non indicato. ", 120)
	d = layoutQuote(q, customer, site, shop)
	require.NoError(t, d.Error())
	assert.Greater(t, d.PageCount(), 1)
	assert.LessOrEqual(t, d.GetY()+5, d.pageH-footerSpace, "last note line overlaps the footer")
}

func TestOrder(t *testing.T) {
	customer, site, shop := fixtures()
	o := &models.Order{
		CustomerID: customer.ID,
		Date:       "2024-06-01",
		Items: []models.PurchaseItem{
			{Product: models.Product{Code: "CAV-01", Name: "Cavo HDMI 2m", PurchasePrice: 5.5}, Quantity: 20},
		},
		Total: 110,
	}

	var buf bytes.Buffer
	require.NoError(t, Order(&buf, o, customer, site, shop))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, Order(&buf, o, customer, nil, shop))
	assert.NotZero(t, buf.Len())
}

func TestChecklist(t *testing.T) {
	customer, site, shop := fixtures()
	cable := models.Product{ID: uuid.New(), Code: "CAV-01", Name: "Cavo HDMI 2m"}
	site.Materials = []models.SiteMaterial{
		{ProductID: cable.ID, Quantity: 20, Purchased: true},
		{ProductID: uuid.New(), Quantity: 1},
	}
	printed := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, Checklist(&buf, site, customer, shop, map[uuid.UUID]models.Product{cable.ID: cable}, printed))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	site.Materials = nil
	buf.Reset()
	require.NoError(t, Checklist(&buf, site, customer, shop, nil, printed))
	assert.NotZero(t, buf.Len())
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "€8.80", money(8.8))
	assert.Equal(t, "€0.00", money(0))
	assert.Equal(t, "20", quantity(20))
	assert.Equal(t, "1.5", quantity(1.5))
	assert.Equal(t, "10/05/2024", italianDate("2024-05-10"))
	assert.Equal(t, "ieri", italianDate("ieri"))
}

func TestExpandSpans(t *testing.T) {
	widths := []float64{10, 20, 30, 40}
	assert.Equal(t, []float64{10, 90}, expandSpans([]cell{{}, {span: 3}}, widths))
	assert.Equal(t, []float64{100}, expandSpans([]cell{{span: 4}}, widths))
	assert.Equal(t, []float64{10, 20, 30, 40}, expandSpans([]cell{{}, {}, {}, {}}, widths))
}
