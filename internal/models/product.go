package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id"`
	CategoryID    uuid.UUID `json:"category_id"`
	Code          string    `json:"code"` // codice prodotto, unique case-insensitively
	Name          string    `json:"name"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	SalePrice     float64   `json:"sale_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Product) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CategoryID == uuid.Nil {
		p.CategoryID = UncategorizedCategoryID
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
