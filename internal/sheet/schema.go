// Package sheet is the tabular store adapter. Every table is a worksheet whose
// first row is the header; callers read and write whole tables of Rows.
package sheet

import (
	"errors"
	"fmt"
)

// Table names.
const (
	Products       = "Products"
	Customers      = "Customers"
	Orders         = "Orders"
	OrderItems     = "OrderItems"
	StockMovements = "StockMovements"
	Settings       = "Settings"
)

// ErrUnknownTable is returned for a table name with no declared schema.
var ErrUnknownTable = errors.New("sheet: unknown table")

// Schema declares the column order of a table and which columns hold numbers.
type Schema struct {
	Name    string
	Columns []string
	Numeric map[string]bool
}

func numeric(cols ...string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}

var schemas = map[string]Schema{
	Products: {
		Name:    Products,
		Columns: []string{"SKU", "Name", "RetailPrice", "WholesalePrice", "InStock", "LowStockThreshold", "Active", "Notes"},
		Numeric: numeric("RetailPrice", "WholesalePrice", "InStock", "LowStockThreshold"),
	},
	Customers: {
		Name:    Customers,
		Columns: []string{"CustomerID", "Name", "Phone", "Address", "Notes"},
		Numeric: numeric(),
	},
	Orders: {
		Name: Orders,
		Columns: []string{"OrderID", "DateTime", "CustomerID", "CustomerName", "CustomerAddress", "Channel",
			"PricingType", "Subtotal", "Discount", "Delivery", "Deposit", "Total", "Status", "Notes"},
		Numeric: numeric("Subtotal", "Discount", "Delivery", "Deposit", "Total"),
	},
	OrderItems: {
		Name:    OrderItems,
		Columns: []string{"OrderID", "SKU", "Name", "Qty", "UnitPrice", "LineTotal"},
		Numeric: numeric("Qty", "UnitPrice", "LineTotal"),
	},
	StockMovements: {
		Name:    StockMovements,
		Columns: []string{"Timestamp", "SKU", "Change", "Reason", "Reference", "Note"},
		Numeric: numeric("Change"),
	},
	Settings: {
		Name:    Settings,
		Columns: []string{"Key", "Value"},
		Numeric: numeric(),
	},
}

// Tables lists every table in creation order.
func Tables() []string {
	return []string{Products, Customers, Orders, OrderItems, StockMovements, Settings}
}

// SchemaFor returns the declared schema of a table.
func SchemaFor(table string) (Schema, error) {
	s, ok := schemas[table]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return s, nil
}

// Default is the value synthesized for a missing cell.
func (s Schema) Default(col string) string {
	if s.Numeric[col] {
		return "0"
	}
	return ""
}

// Row is one data row keyed by column name.
type Row map[string]string

// normalize returns a copy of r holding exactly the schema columns.
func (s Schema) normalize(r Row) Row {
	out := make(Row, len(s.Columns))
	for _, c := range s.Columns {
		v, ok := r[c]
		if !ok || (v == "" && s.Numeric[c]) {
			v = s.Default(c)
		}
		out[c] = v
	}
	return out
}

// values renders r in column order.
func (s Schema) values(r Row) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		v, ok := r[c]
		if !ok {
			v = s.Default(c)
		}
		out[i] = v
	}
	return out
}
