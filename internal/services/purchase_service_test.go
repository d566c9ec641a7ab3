package services_test

import (
	"bytes"
	"testing"

	"gestionale/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPurchase(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	cable := e.product(t, "", "CAV-01", 5.50, 8.80)
	shirt := e.product(t, "", "TSH-001", 8.50, 12.75)
	customer := e.customer(t, "Mario Rossi SRL", "")
	site := e.site(t, customer, "Cantiere")

	first, err := e.purchases.AddPurchase(ctx, services.CreatePurchaseRequest{
		CustomerID: customer.ID.String(),
		SiteID:     site.ID.String(),
		Date:       "2023-10-15",
		Items:      []services.ItemRequest{{ProductID: cable.ID.String(), Quantity: 20}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 110.0, first.Total, 0.001)

	_, err = e.purchases.AddPurchase(ctx, services.CreatePurchaseRequest{
		CustomerID: customer.ID.String(),
		SiteID:     site.ID.String(),
		Date:       "2023-10-18",
		Items:      []services.ItemRequest{{ProductID: shirt.ID.String(), Quantity: 5}},
	})
	require.NoError(t, err)

	history, err := e.purchases.ListPurchasesForSite(ctx, site.ID)
	require.NoError(t, err)
	require.Len(t, history.Purchases, 2)
	assert.Equal(t, "2023-10-18", history.Purchases[0].Date)
	assert.InDelta(t, 152.50, history.Total, 0.001)
}

func TestAddPurchaseValidation(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	cable := e.product(t, "", "CAV-01", 5.50, 8.80)
	owner := e.customer(t, "Proprietario", "11111111111")
	other := e.customer(t, "Altro", "22222222222")
	site := e.site(t, owner, "Cantiere")
	items := []services.ItemRequest{{ProductID: cable.ID.String(), Quantity: 1}}

	_, err := e.purchases.AddPurchase(ctx, services.CreatePurchaseRequest{CustomerID: owner.ID.String(), Items: items})
	assert.ErrorIs(t, err, services.ErrInvalidInput, "site is required")

	_, err = e.purchases.AddPurchase(ctx, services.CreatePurchaseRequest{CustomerID: other.ID.String(), SiteID: site.ID.String(), Items: items})
	assert.ErrorIs(t, err, services.ErrInvalidInput, "site must belong to the customer")

	_, err = e.purchases.AddPurchase(ctx, services.CreatePurchaseRequest{CustomerID: owner.ID.String(), SiteID: site.ID.String()})
	assert.ErrorIs(t, err, services.ErrInvalidInput, "items are required")
}

func TestOrderPDF(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	cable := e.product(t, "", "CAV-01", 5.50, 8.80)
	customer := e.customer(t, "Bianchi Costruzioni", "")
	site := e.site(t, customer, "Nuova Villetta")

	req := services.OrderRequest{
		CustomerID: customer.ID.String(),
		SiteID:     site.ID.String(),
		Date:       "2024-06-01",
		Items:      []services.ItemRequest{{ProductID: cable.ID.String(), Quantity: 4}},
	}
	order, err := e.orders.BuildOrder(ctx, req)
	require.NoError(t, err)
	assert.InDelta(t, 22.0, order.Total, 0.001)
	require.NotNil(t, order.SiteID)

	doc, err := e.orders.OrderPDF(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Ordine-2024-06-01.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))

	// Without a site the order is addressed to the customer.
	req.SiteID = ""
	_, err = e.orders.OrderPDF(ctx, req)
	require.NoError(t, err)

	_, err = e.orders.BuildOrder(ctx, services.OrderRequest{Items: req.Items})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = e.orders.BuildOrder(ctx, services.OrderRequest{CustomerID: customer.ID.String()})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}
