package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/middleware"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/services"
)

type CustomerHandler struct {
	catalog *services.CatalogService
}

func NewCustomerHandler(catalog *services.CatalogService) *CustomerHandler {
	return &CustomerHandler{catalog: catalog}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.catalog.Customers(r.Context())
	if err != nil {
		showError(w, r, err)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, customers)
		return
	}
	renderTemplate(w, r, "customers/index", map[string]any{"Customers": customers})
}

func (h *CustomerHandler) New(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "customers/form", map[string]any{"Customer": models.Customer{}})
}

func (h *CustomerHandler) Edit(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.Customer(r.Context(), r.PathValue("id"))
	if err != nil {
		showError(w, r, err)
		return
	}
	renderTemplate(w, r, "customers/form", map[string]any{"Customer": c})
}

// Save updates the customer named by customer_id or registers a new one.
func (h *CustomerHandler) Save(w http.ResponseWriter, r *http.Request) {
	var c models.Customer
	jsonBody := isJSONBody(r)
	if jsonBody {
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	} else {
		c = models.Customer{
			CustomerID: r.FormValue("customer_id"),
			Name:       r.FormValue("name"),
			Phone:      r.FormValue("phone"),
			Address:    r.FormValue("address"),
			Notes:      r.FormValue("notes"),
		}
	}
	saved, created, err := h.catalog.UpsertCustomer(r.Context(), c)
	if err != nil {
		if jsonBody || wantsJSON(r) {
			writeError(w, err)
			return
		}
		status, data := formErrors(r, err)
		renderStatus(w, r, status, "customers/form", merge(data, map[string]any{"Customer": c}))
		return
	}
	if jsonBody || wantsJSON(r) {
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		httpx.JSON(w, status, saved)
		return
	}
	middleware.Flash(w, r, "customer_saved")
	http.Redirect(w, r, "/customers", statusSeeOther)
}
