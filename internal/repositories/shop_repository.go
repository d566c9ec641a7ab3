package repositories

import (
	"context"
	"errors"

	"gestionale/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ShopRepository struct {
	pool *pgxpool.Pool
}

func NewShopRepository(pool *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{pool: pool}
}

func (r *ShopRepository) Get(ctx context.Context) (*models.ShopInfo, error) {
	query := `SELECT company_name, description, codice_fiscale, iban, payment_conditions, vat_rate
		FROM shop_info WHERE id = 1`

	var info models.ShopInfo
	err := r.pool.QueryRow(ctx, query).Scan(
		&info.CompanyName,
		&info.Description,
		&info.CodiceFiscale,
		&info.IBAN,
		&info.PaymentConditions,
		&info.VATRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

func (r *ShopRepository) Save(ctx context.Context, info *models.ShopInfo) error {
	query := `
		INSERT INTO shop_info (id, company_name, description, codice_fiscale, iban, payment_conditions, vat_rate, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			description = EXCLUDED.description,
			codice_fiscale = EXCLUDED.codice_fiscale,
			iban = EXCLUDED.iban,
			payment_conditions = EXCLUDED.payment_conditions,
			vat_rate = EXCLUDED.vat_rate,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		info.CompanyName,
		info.Description,
		info.CodiceFiscale,
		info.IBAN,
		info.PaymentConditions,
		info.VATRate,
	)
	return err
}
