package models

import "github.com/google/uuid"

// Order is a material order sent to a supplier. It is rendered, never stored.
type Order struct {
	CustomerID uuid.UUID      `json:"customer_id"`
	SiteID     *uuid.UUID     `json:"site_id,omitempty"`
	Date       string         `json:"date"`
	Items      []PurchaseItem `json:"items"`
	Total      float64        `json:"total"`
}
