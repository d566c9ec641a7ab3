package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts handles GET /api/v1/products. With category_id it lists one
// category, otherwise the whole catalog filtered by q.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()
	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			responses.Fail(c, http.StatusBadRequest, err, "category_id non valido")
			return
		}
		products, err := h.productService.ListProducts(ctx, categoryID)
		if err != nil {
			fail(c, err, "Impossibile caricare i prodotti")
			return
		}
		responses.Success(c, http.StatusOK, services.FilterProducts(products, c.Query("q")), "")
		return
	}

	products, err := h.productService.ListAllProducts(ctx, c.Query("q"))
	if err != nil {
		fail(c, err, "Impossibile caricare i prodotti")
		return
	}
	responses.Success(c, http.StatusOK, products, "")
}

// AddProduct handles POST /api/v1/products. An existing code is merged
// into the stored product and answered with 200 instead of 201.
func (h *ProductHandler) AddProduct(c *gin.Context) {
	var req services.ProductRequest
	if !bind(c, &req) {
		return
	}
	product, created, err := h.productService.AddProduct(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Impossibile salvare il prodotto")
		return
	}
	if created {
		responses.Success(c, http.StatusCreated, product, "Prodotto aggiunto con successo")
		return
	}
	responses.Success(c, http.StatusOK, product, "Prodotto esistente aggiornato")
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.ProductRequest
	if !bind(c, &req) {
		return
	}
	product, err := h.productService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err, "Impossibile aggiornare il prodotto")
		return
	}
	responses.Success(c, http.StatusOK, product, "Prodotto aggiornato")
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, err, "Impossibile eliminare il prodotto")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Prodotto eliminato")
}

type pricingResponse struct {
	SuggestedSalePrice float64 `json:"suggested_sale_price"`
	MarkupPercent      float64 `json:"markup_percent"`
}

// Pricing handles GET /api/v1/products/pricing
func (h *ProductHandler) Pricing(c *gin.Context) {
	values := map[string]float64{}
	for _, name := range []string{"purchase_price", "margin", "sale_price"} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			responses.Fail(c, http.StatusBadRequest, err, name+" non valido")
			return
		}
		values[name] = v
	}

	responses.Success(c, http.StatusOK, pricingResponse{
		SuggestedSalePrice: services.SuggestSalePrice(values["purchase_price"], values["margin"]),
		MarkupPercent:      services.MarkupPercent(values["purchase_price"], values["sale_price"]),
	}, "")
}
