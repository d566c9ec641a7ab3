package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository remembers the signatures of imported supplier documents.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Exists(ctx context.Context, signature string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM document_signatures WHERE signature = $1)`, signature).Scan(&exists)
	return exists, err
}

func (r *DocumentRepository) Record(ctx context.Context, signature string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO document_signatures (signature) VALUES ($1) ON CONFLICT (signature) DO NOTHING`, signature)
	return err
}
