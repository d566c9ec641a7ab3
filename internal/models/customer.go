package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an Italian business or private client. VATNumber is the
// partita IVA and TaxCode the codice fiscale.
type Customer struct {
	ID           uuid.UUID `json:"id"`
	BusinessName string    `json:"business_name"` // ragione sociale
	VATNumber    string    `json:"vat_number"`
	TaxCode      string    `json:"tax_code"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postal_code"`
	Province     string    `json:"province"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Customer) Prepare() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}

// CompanyIdentifiers holds the fiscal codes found for a business name.
type CompanyIdentifiers struct {
	VATNumber string `json:"vat_number"`
	TaxCode   string `json:"tax_code"`
}
