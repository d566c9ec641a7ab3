package repositories

import (
	"context"
	"errors"

	"gestionale/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SiteRepository stores construction sites and their material lists. The
// list order is kept through site_materials.position.
type SiteRepository struct {
	pool *pgxpool.Pool
}

func NewSiteRepository(pool *pgxpool.Pool) *SiteRepository {
	return &SiteRepository{pool: pool}
}

func (r *SiteRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.ConstructionSite, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, name, address, created_at
		FROM construction_sites WHERE customer_id = $1
		ORDER BY created_at, name`, customerID)
	if err != nil {
		return nil, err
	}

	var sites []models.ConstructionSite
	for rows.Next() {
		var s models.ConstructionSite
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.Name, &s.Address, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		s.Materials = []models.SiteMaterial{}
		sites = append(sites, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return sites, nil
	}

	ids := make([]uuid.UUID, len(sites))
	index := make(map[uuid.UUID]int, len(sites))
	for i, s := range sites {
		ids[i] = s.ID
		index[s.ID] = i
	}

	materials, err := r.pool.Query(ctx, `
		SELECT site_id, product_id, quantity, purchased
		FROM site_materials WHERE site_id = ANY($1)
		ORDER BY site_id, position`, ids)
	if err != nil {
		return nil, err
	}
	defer materials.Close()
	for materials.Next() {
		var siteID uuid.UUID
		var m models.SiteMaterial
		if err := materials.Scan(&siteID, &m.ProductID, &m.Quantity, &m.Purchased); err != nil {
			return nil, err
		}
		i := index[siteID]
		sites[i].Materials = append(sites[i].Materials, m)
	}
	return sites, materials.Err()
}

func (r *SiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ConstructionSite, error) {
	var s models.ConstructionSite
	err := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, name, address, created_at
		FROM construction_sites WHERE id = $1`, id).Scan(
		&s.ID, &s.CustomerID, &s.Name, &s.Address, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT product_id, quantity, purchased
		FROM site_materials WHERE site_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	s.Materials = []models.SiteMaterial{}
	for rows.Next() {
		var m models.SiteMaterial
		if err := rows.Scan(&m.ProductID, &m.Quantity, &m.Purchased); err != nil {
			return nil, err
		}
		s.Materials = append(s.Materials, m)
	}
	return &s, rows.Err()
}

func (r *SiteRepository) Create(ctx context.Context, site *models.ConstructionSite) error {
	site.Prepare()

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO construction_sites (id, customer_id, name, address, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			site.ID, site.CustomerID, site.Name, site.Address, site.CreatedAt,
		)
		if err != nil {
			return translate(err)
		}
		return insertMaterials(ctx, tx, site.ID, site.Materials)
	})
}

// UpdateMaterials replaces the material list of a site.
func (r *SiteRepository) UpdateMaterials(ctx context.Context, siteID uuid.UUID, materials []models.SiteMaterial) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT id FROM construction_sites WHERE id = $1 FOR UPDATE`, siteID).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM site_materials WHERE site_id = $1`, siteID); err != nil {
			return err
		}
		return insertMaterials(ctx, tx, siteID, materials)
	})
}

func insertMaterials(ctx context.Context, tx pgx.Tx, siteID uuid.UUID, materials []models.SiteMaterial) error {
	if len(materials) == 0 {
		return nil
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"site_materials"},
		[]string{"site_id", "position", "product_id", "quantity", "purchased"},
		pgx.CopyFromSlice(len(materials), func(i int) ([]any, error) {
			m := materials[i]
			return []any{siteID, i, m.ProductID, m.Quantity, m.Purchased}, nil
		}),
	)
	return err
}
