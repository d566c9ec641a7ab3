package models

import (
	"time"

	"github.com/google/uuid"
)

type QuoteItem struct {
	Product  Product `json:"product"`
	Quantity float64 `json:"quantity"`
}

// Quote is a preventivo. VATRate is the effective rate over the whole quote,
// which differs from any single category rate when lines mix rates.
type Quote struct {
	ID          uuid.UUID   `json:"id"`
	QuoteNumber string      `json:"quote_number"`
	CustomerID  uuid.UUID   `json:"customer_id"`
	SiteID      *uuid.UUID  `json:"site_id,omitempty"`
	Date        string      `json:"date"`
	Items       []QuoteItem `json:"items"`
	Notes       string      `json:"notes"`
	IncludeVAT  bool        `json:"include_vat"`
	Subtotal    float64     `json:"subtotal"`
	Tax         float64     `json:"tax"`
	Total       float64     `json:"total"`
	VATRate     float64     `json:"vat_rate"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (q *Quote) Prepare() {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
}
