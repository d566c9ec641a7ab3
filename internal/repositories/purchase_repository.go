package repositories

import (
	"context"
	"time"

	"gestionale/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PurchaseRepository keeps purchase lines as JSONB snapshots of the products.
type PurchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

func (r *PurchaseRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]models.Purchase, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, site_id, date, items, total, created_at
		FROM purchases WHERE site_id = $1
		ORDER BY date DESC, created_at DESC`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		var date time.Time
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.SiteID, &date, &p.Items, &p.Total, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Date = formatDate(date)
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	purchase.Prepare()

	date, err := parseDate(purchase.Date)
	if err != nil {
		return err
	}
	if purchase.Items == nil {
		purchase.Items = []models.PurchaseItem{}
	}

	query := `
		INSERT INTO purchases (id, customer_id, site_id, date, items, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		purchase.ID,
		purchase.CustomerID,
		purchase.SiteID,
		date,
		purchase.Items,
		purchase.Total,
		purchase.CreatedAt,
	)
	return translate(err)
}
