package models

import (
	"time"

	"github.com/google/uuid"
)

// ConstructionSite (cantiere) belongs to a customer and carries the list of
// materials still to be bought for it.
type ConstructionSite struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	Name       string         `json:"name"`
	Address    string         `json:"address"`
	Materials  []SiteMaterial `json:"materials"`
	CreatedAt  time.Time      `json:"created_at"`
}

type SiteMaterial struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  float64   `json:"quantity"`
	Purchased bool      `json:"purchased"`
}

func (s *ConstructionSite) Prepare() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Materials == nil {
		s.Materials = []SiteMaterial{}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
}
