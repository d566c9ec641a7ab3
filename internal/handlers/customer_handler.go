package handlers

import (
	"net/http"

	"gestionale/internal/responses"
	"gestionale/internal/services"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService *services.CustomerService
	siteService     *services.SiteService
}

func NewCustomerHandler(customerService *services.CustomerService, siteService *services.SiteService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, siteService: siteService}
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		fail(c, err, "Impossibile caricare i clienti")
		return
	}
	responses.Success(c, http.StatusOK, customers, "")
}

func (h *CustomerHandler) AddCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if !bind(c, &req) {
		return
	}
	customer, err := h.customerService.AddCustomer(c.Request.Context(), req)
	if err != nil {
		fail(c, err, "Impossibile salvare il cliente")
		return
	}
	responses.Success(c, http.StatusCreated, customer, "Cliente aggiunto con successo!")
}

// Autofill handles POST /api/v1/customers/autofill
func (h *CustomerHandler) Autofill(c *gin.Context) {
	var req struct {
		BusinessName string `json:"business_name"`
	}
	if !bind(c, &req) {
		return
	}
	ids, err := h.customerService.AutofillCustomer(c.Request.Context(), req.BusinessName)
	if err != nil {
		fail(c, err, "Impossibile trovare i dati. Inseriscili manualmente.")
		return
	}
	msg := "Dati trovati e compilati!"
	if ids.VATNumber == "" && ids.TaxCode == "" {
		msg = "Nessun dato trovato per questa ragione sociale."
	}
	responses.Success(c, http.StatusOK, ids, msg)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile caricare il cliente")
		return
	}
	responses.Success(c, http.StatusOK, customer, "")
}

// Overview handles GET /api/v1/customers/:id/overview
func (h *CustomerHandler) Overview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	overview, err := h.customerService.CustomerOverview(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile caricare i dettagli del cliente")
		return
	}
	responses.Success(c, http.StatusOK, overview, "")
}

func (h *CustomerHandler) ListSites(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sites, err := h.siteService.ListSites(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Impossibile caricare i cantieri")
		return
	}
	responses.Success(c, http.StatusOK, sites, "")
}

func (h *CustomerHandler) AddSite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.CreateSiteRequest
	if !bind(c, &req) {
		return
	}
	site, err := h.siteService.AddSite(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err, "Impossibile creare il cantiere")
		return
	}
	responses.Success(c, http.StatusCreated, site, "Cantiere aggiunto!")
}
