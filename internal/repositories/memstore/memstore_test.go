package memstore_test

import (
	"context"
	"testing"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/repositories"
	"gestionale/internal/repositories/memstore"
	"gestionale/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ services.ShopStore     = (*memstore.ShopStore)(nil)
	_ services.CategoryStore = (*memstore.CategoryStore)(nil)
	_ services.ProductStore  = (*memstore.ProductStore)(nil)
	_ services.CustomerStore = (*memstore.CustomerStore)(nil)
	_ services.SiteStore     = (*memstore.SiteStore)(nil)
	_ services.PurchaseStore = (*memstore.PurchaseStore)(nil)
	_ services.QuoteStore    = (*memstore.QuoteStore)(nil)
	_ services.DocumentStore = (*memstore.DocumentStore)(nil)
	_ services.UserStore     = (*memstore.UserStore)(nil)
	_ services.TokenRevoker  = (*memstore.RevocationStore)(nil)
)

func TestNewSeedsUncategorized(t *testing.T) {
	store := memstore.New()
	c, err := store.Categories().GetByID(context.Background(), models.UncategorizedCategoryID)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Da Assegnare", c.Name)

	err = store.Categories().Create(context.Background(), &models.Category{Name: "da assegnare"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestProductCodeIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	products := memstore.New().Products()

	p := &models.Product{Code: "CAV-01", Name: "Cavo HDMI 2m"}
	require.NoError(t, products.Create(ctx, p))
	assert.Equal(t, models.UncategorizedCategoryID, p.CategoryID)

	found, err := products.FindByCode(ctx, "cav-01")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.ID, found.ID)

	err = products.Create(ctx, &models.Product{Code: "cav-01", Name: "Altro"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	err = products.Update(ctx, &models.Product{ID: uuid.New(), Code: "X"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, products.Delete(ctx, uuid.New()), repositories.ErrNotFound)
}

func TestSiteMaterialsAreCopied(t *testing.T) {
	ctx := context.Background()
	sites := memstore.New().Sites()

	site := &models.ConstructionSite{CustomerID: uuid.New(), Name: "Nuova Villetta"}
	require.NoError(t, sites.Create(ctx, site))

	materials := []models.SiteMaterial{{ProductID: uuid.New(), Quantity: 2}}
	require.NoError(t, sites.UpdateMaterials(ctx, site.ID, materials))
	materials[0].Quantity = 99

	got, err := sites.GetByID(ctx, site.ID)
	require.NoError(t, err)
	require.Len(t, got.Materials, 1)
	assert.Equal(t, 2.0, got.Materials[0].Quantity)

	assert.ErrorIs(t, sites.UpdateMaterials(ctx, uuid.New(), nil), repositories.ErrNotFound)
}

func TestPurchasesNewestFirst(t *testing.T) {
	ctx := context.Background()
	purchases := memstore.New().Purchases()
	siteID := uuid.New()

	for _, date := range []string{"2023-10-15", "2023-10-18", "2023-09-01"} {
		require.NoError(t, purchases.Create(ctx, &models.Purchase{SiteID: siteID, Date: date}))
	}
	require.NoError(t, purchases.Create(ctx, &models.Purchase{SiteID: uuid.New(), Date: "2024-01-01"}))

	got, err := purchases.ListBySite(ctx, siteID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2023-10-18", got[0].Date)
	assert.Equal(t, "2023-09-01", got[2].Date)
}

func TestQuoteSequencePerYear(t *testing.T) {
	ctx := context.Background()
	quotes := memstore.New().Quotes()

	for want := 1; want <= 3; want++ {
		n, err := quotes.NextSequence(ctx, 2024)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	n, err := quotes.NextSequence(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRevocationExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	revocations := memstore.New(memstore.WithClock(func() time.Time { return now })).Revocations()

	first, err := revocations.Revoke(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)
	first, err = revocations.Revoke(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, first, "already revoked")

	revoked, err := revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCreateFirstUser(t *testing.T) {
	ctx := context.Background()
	users := memstore.New().Users()

	created, err := users.CreateFirst(ctx, &models.User{Email: "admin@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = users.CreateFirst(ctx, &models.User{Email: "other@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.False(t, created)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLatencyHonoursContext(t *testing.T) {
	store := memstore.New(memstore.WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Customers().List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
