package services

import (
	"context"
	"time"

	"gestionale/internal/models"

	"github.com/google/uuid"
)

// Lookups return (nil, nil) when nothing matches. Mutations on a missing
// record return repositories.ErrNotFound and unique violations return
// repositories.ErrDuplicate.

type ShopStore interface {
	Get(ctx context.Context) (*models.ShopInfo, error)
	Save(ctx context.Context, info *models.ShopInfo) error
}

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByCode(ctx context.Context, code string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CustomerStore interface {
	List(ctx context.Context) ([]models.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByFiscalCodes(ctx context.Context, vatNumber, taxCode string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
}

type SiteStore interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.ConstructionSite, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ConstructionSite, error)
	Create(ctx context.Context, site *models.ConstructionSite) error
	UpdateMaterials(ctx context.Context, siteID uuid.UUID, materials []models.SiteMaterial) error
}

type PurchaseStore interface {
	// ListBySite returns purchases newest first.
	ListBySite(ctx context.Context, siteID uuid.UUID) ([]models.Purchase, error)
	Create(ctx context.Context, purchase *models.Purchase) error
}

type QuoteStore interface {
	// ListBySite returns quotes newest first.
	ListBySite(ctx context.Context, siteID uuid.UUID) ([]models.Quote, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	Create(ctx context.Context, quote *models.Quote) error
	// NextSequence atomically increments and returns the counter for year.
	NextSequence(ctx context.Context, year int) (int, error)
}

type DocumentStore interface {
	Exists(ctx context.Context, signature string) (bool, error)
	Record(ctx context.Context, signature string) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	// CreateFirst creates user only when there is no user yet. It reports
	// false, without error, when another user already exists.
	CreateFirst(ctx context.Context, user *models.User) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// TokenRevoker remembers logged-out token ids until they would expire anyway.
type TokenRevoker interface {
	// Revoke reports false when jti was already revoked.
	Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Assistant is the generative-AI collaborator.
type Assistant interface {
	ExtractDocument(ctx context.Context, mimeType string, data []byte) (*models.ExtractedDocument, error)
	Categorize(ctx context.Context, categories []string, products []string) ([]models.CategoryAssignment, error)
	LookupCompany(ctx context.Context, businessName string) (*models.CompanyIdentifiers, error)
}
