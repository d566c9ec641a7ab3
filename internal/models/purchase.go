package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage format of document dates.
const DateLayout = "2006-01-02"

// PurchaseItem keeps a copy of the product as it was when the line was
// recorded, so later price edits do not rewrite history.
type PurchaseItem struct {
	Product  Product `json:"product"`
	Quantity float64 `json:"quantity"`
}

type Purchase struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	SiteID     uuid.UUID      `json:"site_id"`
	Date       string         `json:"date"`
	Items      []PurchaseItem `json:"items"`
	Total      float64        `json:"total"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (p *Purchase) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
}
