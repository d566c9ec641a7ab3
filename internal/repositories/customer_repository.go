package repositories

import (
	"context"
	"errors"

	"gestionale/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerColumns = `id, business_name, vat_number, tax_code, address, city, postal_code, province, email, phone, created_at`

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.ID,
		&c.BusinessName,
		&c.VATNumber,
		&c.TaxCode,
		&c.Address,
		&c.City,
		&c.PostalCode,
		&c.Province,
		&c.Email,
		&c.Phone,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY business_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// FindByFiscalCodes returns a customer matching either code. Empty codes
// never match.
func (r *CustomerRepository) FindByFiscalCodes(ctx context.Context, vatNumber, taxCode string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers
		WHERE ($1 <> '' AND vat_number = $1) OR ($2 <> '' AND UPPER(tax_code) = UPPER($2))
		ORDER BY created_at
		LIMIT 1`
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, vatNumber, taxCode))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	customer.Prepare()

	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		customer.ID,
		customer.BusinessName,
		customer.VATNumber,
		customer.TaxCode,
		customer.Address,
		customer.City,
		customer.PostalCode,
		customer.Province,
		customer.Email,
		customer.Phone,
		customer.CreatedAt,
	)
	return translate(err)
}
