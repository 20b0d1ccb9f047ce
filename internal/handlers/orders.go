package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/invoice"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	svc *services.Services
}

func NewOrderHandler(svc *services.Services) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.Reports.Orders(r.Context())
	if err != nil {
		showError(w, r, err)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, orders)
		return
	}
	renderTemplate(w, r, "orders/index", map[string]any{"Orders": orders})
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	order, items, err := h.svc.Reports.Order(r.Context(), r.PathValue("id"))
	if err != nil {
		showError(w, r, err)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"order": order, "items": items})
		return
	}
	renderTemplate(w, r, "orders/view", map[string]any{
		"Order":   order,
		"Items":   items,
		"Balance": order.Balance(),
	})
}

// Invoice downloads the printable invoice of a stored order.
func (h *OrderHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	order, items, err := h.svc.Reports.Order(r.Context(), r.PathValue("id"))
	if err != nil {
		showError(w, r, err)
		return
	}
	profile, err := h.svc.Settings.Profile(r.Context())
	if err != nil {
		showError(w, r, err)
		return
	}
	body, err := invoice.Render(order, items, profile)
	if err != nil {
		showError(w, r, err)
		return
	}
	httpx.Download(w, "text/html; charset=utf-8", invoice.Filename(order.OrderID), body)
}

type orderRequest struct {
	Customer struct {
		CustomerID string `json:"customer_id"`
		Name       string `json:"name"`
		Phone      string `json:"phone"`
		Address    string `json:"address"`
	} `json:"customer"`
	Items []struct {
		SKU       string           `json:"sku"`
		Qty       int              `json:"qty"`
		UnitPrice *decimal.Decimal `json:"unit_price"`
	} `json:"items"`
	Discount    decimal.Decimal `json:"discount"`
	Delivery    decimal.Decimal `json:"delivery"`
	Deposit     decimal.Decimal `json:"deposit"`
	Channel     string          `json:"channel"`
	PricingType string          `json:"pricing_type"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
}

// Create places an order from a JSON body. Items without a unit_price take
// the catalog price for the order's pricing type.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	pricing, err := models.ParsePricingType(req.PricingType)
	if err != nil {
		pricing = models.PricingRetail
	}
	in := services.PlaceOrderInput{
		Customer: services.CustomerRef{
			CustomerID: req.Customer.CustomerID,
			Name:       req.Customer.Name,
			Phone:      req.Customer.Phone,
			Address:    req.Customer.Address,
		},
		Discount:    req.Discount,
		Delivery:    req.Delivery,
		Deposit:     req.Deposit,
		Channel:     req.Channel,
		PricingType: req.PricingType,
		Status:      req.Status,
		Notes:       req.Notes,
	}
	for _, it := range req.Items {
		line := services.CartLine{SKU: it.SKU, Qty: it.Qty}
		p, err := h.svc.Catalog.Product(r.Context(), it.SKU)
		switch {
		case err == nil:
			line.Name = p.Name
			line.UnitPrice = p.PriceFor(pricing)
		case !errors.Is(err, services.ErrProductNotFound):
			writeError(w, err)
			return
		}
		if it.UnitPrice != nil {
			line.UnitPrice = *it.UnitPrice
		}
		in.Cart = append(in.Cart, line)
	}
	receipt, err := h.svc.Inventory.PlaceOrder(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/orders/"+receipt.Order.OrderID)
	httpx.JSON(w, http.StatusCreated, receipt)
}
