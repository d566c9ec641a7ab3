package services_test

import (
	"bytes"
	"testing"

	"gestionale/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSite(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	customer := e.customer(t, "Mario Rossi SRL", "")

	site := e.site(t, customer, "Nuova Villetta")
	assert.Equal(t, customer.ID, site.CustomerID)
	assert.NotNil(t, site.Materials)
	assert.Empty(t, site.Materials)

	_, err := e.sites.AddSite(ctx, uuid.New(), services.CreateSiteRequest{Name: "X"})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = e.sites.AddSite(ctx, customer.ID, services.CreateSiteRequest{Name: " "})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	sites, err := e.sites.ListSites(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, sites, 1)
}

func TestUpdateSiteMaterials(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	cable := e.product(t, "", "CAV-01", 5.50, 8.80)
	site := e.site(t, e.customer(t, "Mario Rossi SRL", ""), "Cantiere")

	updated, err := e.sites.UpdateSiteMaterials(ctx, site.ID, services.UpdateMaterialsRequest{
		Materials: []services.MaterialRequest{
			{ProductID: cable.ID.String(), Quantity: 20, Purchased: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Materials, 1)
	assert.Equal(t, cable.ID, updated.Materials[0].ProductID)
	assert.True(t, updated.Materials[0].Purchased)

	_, err = e.sites.UpdateSiteMaterials(ctx, site.ID, services.UpdateMaterialsRequest{
		Materials: []services.MaterialRequest{{ProductID: cable.ID.String(), Quantity: 0}},
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = e.sites.UpdateSiteMaterials(ctx, site.ID, services.UpdateMaterialsRequest{
		Materials: []services.MaterialRequest{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = e.sites.UpdateSiteMaterials(ctx, uuid.New(), services.UpdateMaterialsRequest{})
	assert.ErrorIs(t, err, services.ErrNotFound)

	cleared, err := e.sites.UpdateSiteMaterials(ctx, site.ID, services.UpdateMaterialsRequest{})
	require.NoError(t, err)
	assert.Empty(t, cleared.Materials)
}

func TestSiteChecklistPDF(t *testing.T) {
	e := newEnv(t, nil)
	ctx := t.Context()
	cable := e.product(t, "", "CAV-01", 5.50, 8.80)
	site := e.site(t, e.customer(t, "Mario Rossi SRL", ""), "Ufficio Direzionale")

	empty, err := e.sites.SiteChecklistPDF(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, "ListaMateriali-Ufficio_Direzionale.pdf", empty.Filename)
	assert.Equal(t, "application/pdf", empty.ContentType)
	assert.True(t, bytes.HasPrefix(empty.Content, []byte("%PDF")))

	_, err = e.sites.UpdateSiteMaterials(ctx, site.ID, services.UpdateMaterialsRequest{
		Materials: []services.MaterialRequest{{ProductID: cable.ID.String(), Quantity: 3}},
	})
	require.NoError(t, err)
	// A deleted product still prints as "Prodotto non trovato".
	require.NoError(t, e.products.DeleteProduct(ctx, cable.ID))

	doc, err := e.sites.SiteChecklistPDF(ctx, site.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))

	_, err = e.sites.SiteChecklistPDF(ctx, uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)
}
