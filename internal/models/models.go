// Package models holds the typed records stored as worksheet rows.
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/diewo77/go-pos/internal/sheet"
	"github.com/shopspring/decimal"
)

var (
	ErrBadNumber   = errors.New("models: bad number")
	ErrInvalidEnum = errors.New("models: invalid value")
)

// DateTimeLayout is the format of Order.DateTime and StockMovement.Timestamp.
const DateTimeLayout = "2006-01-02 15:04:05"

// Money renders an amount with two decimals.
func Money(d decimal.Decimal) string { return d.StringFixed(2) }

// ParseMoney reads an amount typed by a user or found in a cell. Blank is zero.
func ParseMoney(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadNumber, raw)
	}
	return d, nil
}

// ParseQty reads a whole number. Cells such as "3.0" are accepted.
func ParseQty(raw string) (int, error) {
	d, err := ParseMoney(raw)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrBadNumber, raw)
	}
	return int(d.IntPart()), nil
}

// cells decodes numeric columns and remembers the first failure.
type cells struct {
	row sheet.Row
	err error
}

func (c *cells) money(col string) decimal.Decimal {
	d, err := ParseMoney(c.row[col])
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("%s: %w", col, err)
	}
	return d
}

func (c *cells) qty(col string) int {
	n, err := ParseQty(c.row[col])
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("%s: %w", col, err)
	}
	return n
}

func (c *cells) str(col string) string { return strings.TrimSpace(c.row[col]) }

// Product is a catalog entry. InStock may be negative after manual adjustments.
type Product struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	RetailPrice       decimal.Decimal `json:"retail_price"`
	WholesalePrice    decimal.Decimal `json:"wholesale_price"`
	InStock           int             `json:"in_stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Active            bool            `json:"active"`
	Notes             string          `json:"notes"`
}

// ProductFromRow decodes a Products row. Anything but "No" in Active is active.
func ProductFromRow(r sheet.Row) (Product, error) {
	c := cells{row: r}
	p := Product{
		SKU:               c.str("SKU"),
		Name:              c.str("Name"),
		RetailPrice:       c.money("RetailPrice"),
		WholesalePrice:    c.money("WholesalePrice"),
		InStock:           c.qty("InStock"),
		LowStockThreshold: c.qty("LowStockThreshold"),
		Active:            !strings.EqualFold(c.str("Active"), "No"),
		Notes:             r["Notes"],
	}
	if c.err != nil {
		return Product{}, fmt.Errorf("product %s: %w", p.SKU, c.err)
	}
	return p, nil
}

func (p Product) Row() sheet.Row {
	active := "Yes"
	if !p.Active {
		active = "No"
	}
	return sheet.Row{
		"SKU":               p.SKU,
		"Name":              p.Name,
		"RetailPrice":       Money(p.RetailPrice),
		"WholesalePrice":    Money(p.WholesalePrice),
		"InStock":           strconv.Itoa(p.InStock),
		"LowStockThreshold": strconv.Itoa(p.LowStockThreshold),
		"Active":            active,
		"Notes":             p.Notes,
	}
}

// PriceFor returns the unit price for a pricing type. A wholesale price of
// zero falls back to retail.
func (p Product) PriceFor(pt PricingType) decimal.Decimal {
	if pt == PricingWholesale && p.WholesalePrice.IsPositive() {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// IsLow reports an active product at or below its threshold.
func (p Product) IsLow() bool { return p.Active && p.InStock <= p.LowStockThreshold }

// Customer is a buyer. CustomerID is generated when blank.
type Customer struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
}

func CustomerFromRow(r sheet.Row) Customer {
	return Customer{
		CustomerID: strings.TrimSpace(r["CustomerID"]),
		Name:       strings.TrimSpace(r["Name"]),
		Phone:      strings.TrimSpace(r["Phone"]),
		Address:    r["Address"],
		Notes:      r["Notes"],
	}
}

func (c Customer) Row() sheet.Row {
	return sheet.Row{"CustomerID": c.CustomerID, "Name": c.Name, "Phone": c.Phone, "Address": c.Address, "Notes": c.Notes}
}

// Setting is one key/value pair of the business profile.
type Setting struct {
	Key   string
	Value string
}

func SettingFromRow(r sheet.Row) Setting {
	return Setting{Key: strings.TrimSpace(r["Key"]), Value: r["Value"]}
}

func (s Setting) Row() sheet.Row { return sheet.Row{"Key": s.Key, "Value": s.Value} }
