package repositories

import (
	"context"
	"errors"
	"time"

	"gestionale/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, category_id, code, name, quantity, purchase_price, sale_price, created_at, updated_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Code,
		&p.Name,
		&p.Quantity,
		&p.PurchasePrice,
		&p.SalePrice,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY name`, categoryID)
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *ProductRepository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE LOWER(code) = LOWER($1)`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.Prepare()

	query := `
		INSERT INTO products (id, category_id, code, name, quantity, purchase_price, sale_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.CategoryID,
		product.Code,
		product.Name,
		product.Quantity,
		product.PurchasePrice,
		product.SalePrice,
		product.CreatedAt,
		product.UpdatedAt,
	)
	return translate(err)
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET category_id = $2, code = $3, name = $4, quantity = $5,
			purchase_price = $6, sale_price = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		product.ID,
		product.CategoryID,
		product.Code,
		product.Name,
		product.Quantity,
		product.PurchasePrice,
		product.SalePrice,
		product.UpdatedAt,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
