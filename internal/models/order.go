package models

import (
	"fmt"
	"strconv"

	"github.com/diewo77/go-pos/internal/sheet"
	"github.com/shopspring/decimal"
)

// Order is an immutable sale header. Total = Subtotal - Discount + Delivery;
// Deposit is recorded but not netted from Total.
type Order struct {
	OrderID         string          `json:"order_id"`
	DateTime        string          `json:"date_time"`
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address"`
	Channel         Channel         `json:"channel"`
	PricingType     PricingType     `json:"pricing_type,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Delivery        decimal.Decimal `json:"delivery"`
	Deposit         decimal.Decimal `json:"deposit"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	Notes           string          `json:"notes"`
}

// OrderFromRow decodes an Orders row. Enum columns are taken as stored.
func OrderFromRow(r sheet.Row) (Order, error) {
	c := cells{row: r}
	o := Order{
		OrderID:         c.str("OrderID"),
		DateTime:        c.str("DateTime"),
		CustomerID:      c.str("CustomerID"),
		CustomerName:    c.str("CustomerName"),
		CustomerAddress: r["CustomerAddress"],
		Channel:         Channel(c.str("Channel")),
		PricingType:     PricingType(c.str("PricingType")),
		Subtotal:        c.money("Subtotal"),
		Discount:        c.money("Discount"),
		Delivery:        c.money("Delivery"),
		Deposit:         c.money("Deposit"),
		Total:           c.money("Total"),
		Status:          OrderStatus(c.str("Status")),
		Notes:           r["Notes"],
	}
	if c.err != nil {
		return Order{}, fmt.Errorf("order %s: %w", o.OrderID, c.err)
	}
	return o, nil
}

func (o Order) Row() sheet.Row {
	return sheet.Row{
		"OrderID":         o.OrderID,
		"DateTime":        o.DateTime,
		"CustomerID":      o.CustomerID,
		"CustomerName":    o.CustomerName,
		"CustomerAddress": o.CustomerAddress,
		"Channel":         string(o.Channel),
		"PricingType":     string(o.PricingType),
		"Subtotal":        Money(o.Subtotal),
		"Discount":        Money(o.Discount),
		"Delivery":        Money(o.Delivery),
		"Deposit":         Money(o.Deposit),
		"Total":           Money(o.Total),
		"Status":          string(o.Status),
		"Notes":           o.Notes,
	}
}

// Date is the YYYY-MM-DD prefix of DateTime.
func (o Order) Date() string {
	if len(o.DateTime) < 10 {
		return o.DateTime
	}
	return o.DateTime[:10]
}

// Balance is what remains due after the deposit.
func (o Order) Balance() decimal.Decimal { return o.Total.Sub(o.Deposit) }

// OrderItem is one line of an order. LineTotal = Qty * UnitPrice.
type OrderItem struct {
	OrderID   string          `json:"order_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewOrderItem computes LineTotal.
func NewOrderItem(orderID, sku, name string, qty int, unit decimal.Decimal) OrderItem {
	return OrderItem{
		OrderID:   orderID,
		SKU:       sku,
		Name:      name,
		Qty:       qty,
		UnitPrice: unit,
		LineTotal: unit.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func OrderItemFromRow(r sheet.Row) (OrderItem, error) {
	c := cells{row: r}
	it := OrderItem{
		OrderID:   c.str("OrderID"),
		SKU:       c.str("SKU"),
		Name:      c.str("Name"),
		Qty:       c.qty("Qty"),
		UnitPrice: c.money("UnitPrice"),
		LineTotal: c.money("LineTotal"),
	}
	if c.err != nil {
		return OrderItem{}, fmt.Errorf("order item %s/%s: %w", it.OrderID, it.SKU, c.err)
	}
	return it, nil
}

func (it OrderItem) Row() sheet.Row {
	return sheet.Row{
		"OrderID":   it.OrderID,
		"SKU":       it.SKU,
		"Name":      it.Name,
		"Qty":       strconv.Itoa(it.Qty),
		"UnitPrice": Money(it.UnitPrice),
		"LineTotal": Money(it.LineTotal),
	}
}

// StockMovement is one ledger entry. Sales carry the OrderID as Reference.
type StockMovement struct {
	Timestamp string         `json:"timestamp"`
	SKU       string         `json:"sku"`
	Change    int            `json:"change"`
	Reason    MovementReason `json:"reason"`
	Reference string         `json:"reference"`
	Note      string         `json:"note"`
}

func StockMovementFromRow(r sheet.Row) (StockMovement, error) {
	c := cells{row: r}
	m := StockMovement{
		Timestamp: c.str("Timestamp"),
		SKU:       c.str("SKU"),
		Change:    c.qty("Change"),
		Reason:    MovementReason(c.str("Reason")),
		Reference: c.str("Reference"),
		Note:      r["Note"],
	}
	if c.err != nil {
		return StockMovement{}, fmt.Errorf("movement %s: %w", m.SKU, c.err)
	}
	return m, nil
}

func (m StockMovement) Row() sheet.Row {
	return sheet.Row{
		"Timestamp": m.Timestamp,
		"SKU":       m.SKU,
		"Change":    strconv.Itoa(m.Change),
		"Reason":    string(m.Reason),
		"Reference": m.Reference,
		"Note":      m.Note,
	}
}
