package models

// DefaultVATRate is applied when neither the shop nor a category sets one.
const DefaultVATRate = 22.0

// ShopInfo is the letterhead printed on every document.
type ShopInfo struct {
	Name              string  `json:"name"`
	CompanyName       string  `json:"company_name"`
	Description       string  `json:"description"`
	CodiceFiscale     string  `json:"codice_fiscale"`
	IBAN              string  `json:"iban"`
	PaymentConditions string  `json:"payment_conditions"`
	VATRate           float64 `json:"vat_rate"`
}
