// Package invoice renders a printable right-to-left HTML invoice for one order.
package invoice

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/i18n"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/shopspring/decimal"
)

// Lang is the invoice language.
const Lang = "ar"

//go:embed invoice.html
var source string

var tpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"t":     func(code string) string { return i18n.T(Lang, code) },
	"money": models.Money,
	"logo": func(b64 string) template.URL {
		return template.URL(httpx.ImageDataURL(b64))
	},
}).Parse(source))

type view struct {
	Lang     string
	Dir      string
	Order    models.Order
	Items    []models.OrderItem
	Business services.BusinessProfile
	Deposit  bool
	Balance  decimal.Decimal
}

// Render produces the invoice document. It performs no I/O and the same
// input always yields the same bytes.
func Render(order models.Order, items []models.OrderItem, business services.BusinessProfile) ([]byte, error) {
	v := view{
		Lang:     Lang,
		Dir:      i18n.Dir(Lang),
		Order:    order,
		Items:    items,
		Business: business,
		Deposit:  order.Deposit.IsPositive(),
		Balance:  order.Balance(),
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", order.OrderID, err)
	}
	return buf.Bytes(), nil
}

// Filename is the download name for an order's invoice.
func Filename(orderID string) string { return "invoice_" + orderID + ".html" }
