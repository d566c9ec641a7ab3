package models

import "github.com/google/uuid"

// UncategorizedCategoryID identifies the "Da Assegnare" bucket. It is created
// by the migrations and can never be deleted or recreated.
var UncategorizedCategoryID = uuid.MustParse("00000000-0000-0000-0000-0000000000ca")

const UncategorizedCategoryName = "Da Assegnare"

type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ProfitMargin float64   `json:"profit_margin"` // percent over purchase price
	VATRate      float64   `json:"vat_rate"`
}

func (c *Category) Prepare() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
}

// IsUncategorized reports whether id is empty or the "Da Assegnare" bucket.
func IsUncategorized(id uuid.UUID) bool {
	return id == uuid.Nil || id == UncategorizedCategoryID
}
