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

type QuoteRepository struct {
	pool *pgxpool.Pool
}

func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{pool: pool}
}

const quoteColumns = `id, quote_number, customer_id, site_id, date, items, notes, include_vat,
	subtotal, tax, total, vat_rate, created_at`

func scanQuote(row rowScanner) (*models.Quote, error) {
	var q models.Quote
	var date time.Time
	err := row.Scan(
		&q.ID,
		&q.QuoteNumber,
		&q.CustomerID,
		&q.SiteID,
		&date,
		&q.Items,
		&q.Notes,
		&q.IncludeVAT,
		&q.Subtotal,
		&q.Tax,
		&q.Total,
		&q.VATRate,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.Date = formatDate(date)
	return &q, nil
}

func (r *QuoteRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]models.Quote, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE site_id = $1
		ORDER BY date DESC, created_at DESC`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	q, err := scanQuote(r.pool.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

func (r *QuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	quote.Prepare()

	date, err := parseDate(quote.Date)
	if err != nil {
		return err
	}
	if quote.Items == nil {
		quote.Items = []models.QuoteItem{}
	}

	query := `INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.pool.Exec(ctx, query,
		quote.ID,
		quote.QuoteNumber,
		quote.CustomerID,
		quote.SiteID,
		date,
		quote.Items,
		quote.Notes,
		quote.IncludeVAT,
		quote.Subtotal,
		quote.Tax,
		quote.Total,
		quote.VATRate,
		quote.CreatedAt,
	)
	return translate(err)
}

// NextSequence bumps the counter of year in a single statement, so two
// concurrent saves never share a number.
func (r *QuoteRepository) NextSequence(ctx context.Context, year int) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO quote_counters (year, last_value) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = quote_counters.last_value + 1
		RETURNING last_value`, year).Scan(&next)
	return next, err
}
