package models

// ExtractedDocument is what an incoming supplier document (delivery note,
// invoice, FatturaPA XML) yields before categorization.
type ExtractedDocument struct {
	Supplier string          `json:"fornitore"`
	Date     string          `json:"dataDocumento"`
	Lines    []ExtractedLine `json:"prodotti"`
}

type ExtractedLine struct {
	Code          string  `json:"codiceProdotto,omitempty"`
	Name          string  `json:"prodotto"`
	Quantity      float64 `json:"quantita"`
	PurchasePrice float64 `json:"prezzoAcquisto"`
}

// CategoryAssignment maps one product name to a category name.
type CategoryAssignment struct {
	Product  string `json:"prodotto"`
	Category string `json:"categoria"`
}
