package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/middleware"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/diewo77/go-pos/validation"
)

type ProductHandler struct {
	catalog *services.CatalogService
}

func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		showError(w, r, err)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query != "" {
		q := strings.ToLower(query)
		filtered := products[:0:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.SKU), q) || strings.Contains(strings.ToLower(p.Name), q) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, products)
		return
	}
	renderTemplate(w, r, "products/index", map[string]any{
		"Products": products,
		"Query":    query,
	})
}

func (h *ProductHandler) New(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "products/form", map[string]any{
		"Product": models.Product{Active: true},
		"IsNew":   true,
	})
}

func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), r.PathValue("sku"))
	if err != nil {
		showError(w, r, err)
		return
	}
	renderTemplate(w, r, "products/form", map[string]any{"Product": p})
}

// Save creates or overwrites the product with the submitted SKU.
func (h *ProductHandler) Save(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	v := validation.Violations{}
	if isJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	} else {
		p = models.Product{
			SKU:               strings.ToUpper(strings.TrimSpace(r.FormValue("sku"))),
			Name:              r.FormValue("name"),
			RetailPrice:       formMoney(r, "retail_price", v),
			WholesalePrice:    formMoney(r, "wholesale_price", v),
			InStock:           formInt(r, "in_stock", v),
			LowStockThreshold: formInt(r, "low_stock_threshold", v),
			Active:            r.FormValue("active") == "on",
			Notes:             r.FormValue("notes"),
		}
	}

	var created bool
	var err error
	if v.Empty() {
		created, err = h.catalog.UpsertProduct(r.Context(), p)
	} else {
		err = &services.ValidationError{Violations: v}
	}
	if err != nil {
		if wantsJSON(r) || isJSONBody(r) {
			writeError(w, err)
			return
		}
		status, data := formErrors(r, err)
		renderStatus(w, r, status, "products/form", merge(data, map[string]any{
			"Product": p,
			"IsNew":   r.FormValue("is_new") == "1",
		}))
		return
	}
	if wantsJSON(r) || isJSONBody(r) {
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		httpx.JSON(w, status, p)
		return
	}
	middleware.Flash(w, r, "product_saved")
	http.Redirect(w, r, "/products", statusSeeOther)
}
