package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/middleware"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/diewo77/go-pos/validation"
)

type StockHandler struct {
	svc *services.Services
}

func NewStockHandler(svc *services.Services) *StockHandler {
	return &StockHandler{svc: svc}
}

// Show lists stock levels with the movement history, optionally for one SKU.
func (h *StockHandler) Show(w http.ResponseWriter, r *http.Request) {
	sku := strings.TrimSpace(r.URL.Query().Get("sku"))
	movements, err := h.svc.Reports.Movements(r.Context(), sku)
	if err != nil {
		showError(w, r, err)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, movements)
		return
	}
	data, err := h.page(r, sku, movements)
	if err != nil {
		showError(w, r, err)
		return
	}
	renderTemplate(w, r, "stock", data)
}

func (h *StockHandler) page(r *http.Request, sku string, movements []models.StockMovement) (map[string]any, error) {
	products, err := h.svc.Catalog.Products(r.Context())
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"SKU":       sku,
		"Products":  products,
		"Movements": movements,
		"Reasons":   models.ManualReasons,
		"Form":      map[string]string{"sku": sku},
	}, nil
}

// Adjust records a manual movement such as a purchase or a return.
func (h *StockHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	in := services.AdjustStockInput{
		SKU:    r.FormValue("sku"),
		Delta:  formInt(r, "delta", v),
		Reason: r.FormValue("reason"),
		Note:   r.FormValue("note"),
	}
	var res *services.AdjustStockResult
	var err error
	if v.Empty() {
		res, err = h.svc.Inventory.AdjustStock(r.Context(), in)
	} else {
		err = &services.ValidationError{Violations: v}
	}
	if err != nil {
		if wantsJSON(r) {
			writeError(w, err)
			return
		}
		status, errData := formErrors(r, err)
		movements, merr := h.svc.Reports.Movements(r.Context(), "")
		if merr != nil {
			showError(w, r, merr)
			return
		}
		data, perr := h.page(r, "", movements)
		if perr != nil {
			showError(w, r, perr)
			return
		}
		data["Form"] = map[string]string{
			"sku":    r.FormValue("sku"),
			"delta":  r.FormValue("delta"),
			"reason": r.FormValue("reason"),
			"note":   r.FormValue("note"),
		}
		renderStatus(w, r, status, "stock", merge(data, errData))
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, res)
		return
	}
	middleware.Flash(w, r, "stock_adjusted")
	http.Redirect(w, r, "/stock?sku="+url.QueryEscape(res.Movement.SKU), statusSeeOther)
}
