package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/pdf"

	"github.com/google/uuid"
)

type SiteService struct {
	sites     SiteStore
	customers CustomerStore
	products  ProductStore
	shop      *ShopService
	now       Clock
}

func NewSiteService(sites SiteStore, customers CustomerStore, products ProductStore, shop *ShopService) *SiteService {
	return &SiteService{
		sites:     sites,
		customers: customers,
		products:  products,
		shop:      shop,
		now:       time.Now,
	}
}

type CreateSiteRequest struct {
	Name      string            `json:"name" binding:"required"`
	Address   string            `json:"address"`
	Materials []MaterialRequest `json:"materials"`
}

type MaterialRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity"`
	Purchased bool    `json:"purchased"`
}

type UpdateMaterialsRequest struct {
	Materials []MaterialRequest `json:"materials"`
}

func (s *SiteService) ListSites(ctx context.Context, customerID uuid.UUID) ([]models.ConstructionSite, error) {
	sites, err := s.sites.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return nonNil(sites), nil
}

func (s *SiteService) GetSite(ctx context.Context, id uuid.UUID) (*models.ConstructionSite, error) {
	site, err := s.sites.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	if site == nil {
		return nil, notFound("Cantiere non trovato")
	}
	return site, nil
}

func (s *SiteService) AddSite(ctx context.Context, customerID uuid.UUID, req CreateSiteRequest) (*models.ConstructionSite, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("nome cantiere obbligatorio")
	}
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, notFound("Cliente non trovato")
	}
	materials, err := s.validateMaterials(ctx, req.Materials)
	if err != nil {
		return nil, err
	}

	site := &models.ConstructionSite{
		CustomerID: customerID,
		Name:       name,
		Address:    strings.TrimSpace(req.Address),
		Materials:  materials,
	}
	if err := s.sites.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}
	return site, nil
}

// UpdateSiteMaterials replaces the whole material list of a site.
func (s *SiteService) UpdateSiteMaterials(ctx context.Context, siteID uuid.UUID, req UpdateMaterialsRequest) (*models.ConstructionSite, error) {
	materials, err := s.validateMaterials(ctx, req.Materials)
	if err != nil {
		return nil, err
	}
	if err := s.sites.UpdateMaterials(ctx, siteID, materials); err != nil {
		return nil, fromStore(err, "Cantiere non trovato")
	}
	return s.GetSite(ctx, siteID)
}

func (s *SiteService) validateMaterials(ctx context.Context, reqs []MaterialRequest) ([]models.SiteMaterial, error) {
	materials := make([]models.SiteMaterial, 0, len(reqs))
	for i, m := range reqs {
		id, err := parseRequiredID(m.ProductID, "product_id")
		if err != nil {
			return nil, err
		}
		if m.Quantity < 1 {
			return nil, invalid("materiale %d: la quantità deve essere almeno 1", i+1)
		}
		product, err := s.products.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get product %s: %w", id, err)
		}
		if product == nil {
			return nil, invalid("materiale %d: prodotto non trovato", i+1)
		}
		materials = append(materials, models.SiteMaterial{
			ProductID: id,
			Quantity:  m.Quantity,
			Purchased: m.Purchased,
		})
	}
	return materials, nil
}

// SiteChecklistPDF renders the shopping list of a construction site.
func (s *SiteService) SiteChecklistPDF(ctx context.Context, siteID uuid.UUID) (*Document, error) {
	site, err := s.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, site.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, notFound("Cliente non trovato per generare il PDF.")
	}
	shop, err := s.shop.GetShopInfo(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products := make(map[uuid.UUID]models.Product, len(all))
	for _, p := range all {
		products[p.ID] = p
	}

	filename := fmt.Sprintf("ListaMateriali-%s.pdf", safeFilename(site.Name))
	return pdfDocument(filename, func(buf *bytes.Buffer) error {
		return pdf.Checklist(buf, site, customer, shop, products, s.now())
	})
}
