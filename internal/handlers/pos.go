package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/middleware"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/diewo77/go-pos/internal/session"
	"github.com/diewo77/go-pos/validation"
	"github.com/shopspring/decimal"
)

// POSHandler drives the order entry screen. The cart lives in the session
// manager until checkout hands it to the inventory service.
type POSHandler struct {
	svc   *services.Services
	carts *session.Manager
}

func NewPOSHandler(svc *services.Services, carts *session.Manager) *POSHandler {
	return &POSHandler{svc: svc, carts: carts}
}

func (h *POSHandler) Show(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Load(w, r)
	if wantsJSON(r) {
		subtotal, _ := services.ComputeTotals(cart.Lines, decimal.Zero, decimal.Zero)
		httpx.JSON(w, http.StatusOK, map[string]any{
			"lines":         cart.Lines,
			"pricing_type":  cart.PricingType,
			"subtotal":      subtotal,
			"last_order_id": cart.LastOrderID,
		})
		return
	}
	data, err := h.page(r, cart)
	if err != nil {
		showError(w, r, err)
		return
	}
	renderTemplate(w, r, "pos", data)
}

// page collects what the order screen shows besides any errors.
func (h *POSHandler) page(r *http.Request, cart session.Cart) (map[string]any, error) {
	products, err := h.svc.Catalog.ActiveProducts(r.Context())
	if err != nil {
		return nil, err
	}
	customers, err := h.svc.Catalog.Customers(r.Context())
	if err != nil {
		return nil, err
	}
	subtotal, _ := services.ComputeTotals(cart.Lines, decimal.Zero, decimal.Zero)
	return map[string]any{
		"Cart":         cart,
		"Subtotal":     subtotal,
		"Products":     products,
		"Customers":    customers,
		"Channels":     models.Channels,
		"Statuses":     models.Statuses,
		"PricingTypes": models.PricingTypes,
		"Form":         map[string]string{},
	}, nil
}

// AddItem puts a product in the cart. The quantity is checked against the
// cached stock level here; checkout re-checks against a fresh read.
func (h *POSHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Load(w, r)
	v := validation.Violations{}
	sku := strings.TrimSpace(r.FormValue("sku"))
	validation.Required("sku", sku, v)
	qty := formInt(r, "qty", v)
	validation.PositiveInt("qty", qty, v)
	if !v.Empty() {
		h.fail(w, r, cart, &services.ValidationError{Violations: v})
		return
	}
	p, err := h.svc.Catalog.Product(r.Context(), sku)
	if err != nil {
		h.fail(w, r, cart, err)
		return
	}
	if want := cart.Qty(sku) + qty; want > p.InStock {
		h.fail(w, r, cart, &services.InsufficientStockError{Shortages: []services.Shortage{
			{SKU: p.SKU, Name: p.Name, Requested: want, Available: p.InStock},
		}})
		return
	}
	cart.Add(p, qty)
	h.carts.Save(cart)
	h.done(w, r, cart)
}

func (h *POSHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Load(w, r)
	cart.Remove(r.PathValue("sku"))
	h.carts.Save(cart)
	h.done(w, r, cart)
}

func (h *POSHandler) SetPricing(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Load(w, r)
	pt, err := models.ParsePricingType(r.FormValue("pricing_type"))
	if err != nil {
		v := validation.Violations{}
		v.Add("pricing_type", "invalid")
		h.fail(w, r, cart, &services.ValidationError{Violations: v})
		return
	}
	products, err := h.svc.Catalog.Products(r.Context())
	if err != nil {
		h.fail(w, r, cart, err)
		return
	}
	cart.SetPricing(pt, products)
	h.carts.Save(cart)
	h.done(w, r, cart)
}

// Checkout places the cart as an order. On success the cart is emptied and the
// screen offers the invoice of the new order.
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Load(w, r)
	v := validation.Violations{}
	in := services.PlaceOrderInput{
		Customer: services.CustomerRef{
			CustomerID: r.FormValue("customer_id"),
			Name:       r.FormValue("customer_name"),
			Phone:      r.FormValue("customer_phone"),
			Address:    r.FormValue("customer_address"),
		},
		Cart:        cart.Lines,
		Discount:    formMoney(r, "discount", v),
		Delivery:    formMoney(r, "delivery", v),
		Deposit:     formMoney(r, "deposit", v),
		Channel:     r.FormValue("channel"),
		PricingType: string(cart.PricingType),
		Status:      r.FormValue("status"),
		Notes:       r.FormValue("notes"),
	}
	if !v.Empty() {
		h.fail(w, r, cart, &services.ValidationError{Violations: v})
		return
	}
	receipt, err := h.svc.Inventory.PlaceOrder(r.Context(), in)
	if err != nil {
		h.fail(w, r, cart, err)
		return
	}
	cart.Reset(receipt.Order.OrderID)
	h.carts.Save(cart)
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, receipt)
		return
	}
	middleware.Flash(w, r, "order_placed")
	http.Redirect(w, r, "/pos", statusSeeOther)
}

func (h *POSHandler) done(w http.ResponseWriter, r *http.Request, cart session.Cart) {
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, cart)
		return
	}
	http.Redirect(w, r, "/pos", statusSeeOther)
}

// fail re-renders the order screen with the submitted values and the error.
func (h *POSHandler) fail(w http.ResponseWriter, r *http.Request, cart session.Cart, err error) {
	if wantsJSON(r) {
		writeError(w, err)
		return
	}
	status, errData := formErrors(r, err)
	data, perr := h.page(r, cart)
	if perr != nil {
		showError(w, r, perr)
		return
	}
	data["Form"] = map[string]string{
		"customer_id":      r.FormValue("customer_id"),
		"customer_name":    r.FormValue("customer_name"),
		"customer_phone":   r.FormValue("customer_phone"),
		"customer_address": r.FormValue("customer_address"),
		"discount":         r.FormValue("discount"),
		"delivery":         r.FormValue("delivery"),
		"deposit":          r.FormValue("deposit"),
		"channel":          r.FormValue("channel"),
		"status":           r.FormValue("status"),
		"notes":            r.FormValue("notes"),
	}
	renderStatus(w, r, status, "pos", merge(data, errData))
}
