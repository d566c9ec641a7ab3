package services

import (
	"context"
	"fmt"
	"strings"

	"gestionale/internal/models"
)

type ShopService struct {
	store   ShopStore
	appName string
}

func NewShopService(store ShopStore, appName string) *ShopService {
	return &ShopService{store: store, appName: appName}
}

type SaveShopInfoRequest struct {
	CompanyName       string   `json:"company_name"`
	Description       string   `json:"description"`
	CodiceFiscale     string   `json:"codice_fiscale"`
	IBAN              string   `json:"iban"`
	PaymentConditions string   `json:"payment_conditions"`
	VATRate           *float64 `json:"vat_rate" binding:"required"`
}

func (s *ShopService) GetShopInfo(ctx context.Context) (*models.ShopInfo, error) {
	info, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop info: %w", err)
	}
	if info == nil {
		info = &models.ShopInfo{VATRate: models.DefaultVATRate}
	}
	info.Name = s.appName
	return info, nil
}

func (s *ShopService) SaveShopInfo(ctx context.Context, req SaveShopInfoRequest) (*models.ShopInfo, error) {
	if req.VATRate == nil {
		return nil, invalid("aliquota IVA obbligatoria")
	}
	if *req.VATRate < 0 || *req.VATRate > 100 {
		return nil, invalid("aliquota IVA non valida: %.2f", *req.VATRate)
	}

	info := &models.ShopInfo{
		Name:              s.appName,
		CompanyName:       strings.TrimSpace(req.CompanyName),
		Description:       strings.TrimSpace(req.Description),
		CodiceFiscale:     strings.ToUpper(strings.TrimSpace(req.CodiceFiscale)),
		IBAN:              strings.ToUpper(strings.ReplaceAll(req.IBAN, " ", "")),
		PaymentConditions: strings.TrimSpace(req.PaymentConditions),
		VATRate:           *req.VATRate,
	}
	if err := s.store.Save(ctx, info); err != nil {
		return nil, fmt.Errorf("failed to save shop info: %w", err)
	}
	return info, nil
}

// defaultVAT is the rate used for products outside any known category.
func (s *ShopService) defaultVAT(ctx context.Context) (float64, error) {
	info, err := s.GetShopInfo(ctx)
	if err != nil {
		return 0, err
	}
	if info.VATRate <= 0 {
		return models.DefaultVATRate, nil
	}
	return info.VATRate, nil
}
