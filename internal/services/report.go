package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/sheet"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// SoldItem is a per-SKU total over a report range.
type SoldItem struct {
	SKU     string `json:"sku"`
	Name    string `json:"name"`
	SoldQty int    `json:"sold_qty"`
}

// SalesReport summarizes orders dated within [Start, End].
type SalesReport struct {
	Start      string           `json:"start"`
	End        string           `json:"end"`
	OrderCount int              `json:"order_count"`
	TotalSales decimal.Decimal  `json:"total_sales"`
	TopSold    []SoldItem       `json:"top_sold"`
	LowStock   []models.Product `json:"low_stock"`
}

// Filename is the download name of the CSV export.
func (r *SalesReport) Filename() string {
	return fmt.Sprintf("report_%s_to_%s.csv", r.Start, r.End)
}

// Dashboard is the landing page summary.
type Dashboard struct {
	Today        string           `json:"today"`
	ProductCount int              `json:"product_count"`
	TodayOrders  int              `json:"today_orders"`
	TodaySales   decimal.Decimal  `json:"today_sales"`
	LowStock     []models.Product `json:"low_stock"`
	RecentOrders []models.Order   `json:"recent_orders"`
}

// ReportService reads only; it never writes to the store.
type ReportService struct {
	store *sheet.Store
	clock Clock
}

// Today is the current date in the business time zone.
func (s *ReportService) Today() string { return s.clock.now().Format(dateLayout) }

// SalesReport aggregates orders whose DateTime starts with a date in range.
// Both bounds are inclusive; the comparison is on the YYYY-MM-DD prefix.
func (s *ReportService) SalesReport(ctx context.Context, start, end string) (*SalesReport, error) {
	if !validDate(start) || !validDate(end) || start > end {
		return nil, fmt.Errorf("%w: %q to %q", ErrInvalidRange, start, end)
	}
	orders, err := loadOrders(ctx, s.store)
	if err != nil {
		return nil, err
	}
	items, err := loadOrderItems(ctx, s.store)
	if err != nil {
		return nil, err
	}
	products, err := loadProducts(ctx, s.store, false)
	if err != nil {
		return nil, err
	}

	rep := &SalesReport{Start: start, End: end, TotalSales: decimal.Zero}
	inRange := map[string]bool{}
	for _, o := range orders {
		d := o.Date()
		if d < start || d > end {
			continue
		}
		inRange[o.OrderID] = true
		rep.OrderCount++
		rep.TotalSales = rep.TotalSales.Add(o.Total)
	}
	rep.TopSold = topSold(items, inRange)
	rep.LowStock = lowStock(products)
	return rep, nil
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// topSold sums quantities per SKU, highest first, ties by SKU.
func topSold(items []models.OrderItem, orders map[string]bool) []SoldItem {
	pos := map[string]int{}
	out := []SoldItem{}
	for _, it := range items {
		if !orders[it.OrderID] {
			continue
		}
		i, ok := pos[it.SKU]
		if !ok {
			i = len(out)
			pos[it.SKU] = i
			out = append(out, SoldItem{SKU: it.SKU, Name: it.Name})
		}
		out[i].SoldQty += it.Qty
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].SoldQty != out[b].SoldQty {
			return out[a].SoldQty > out[b].SoldQty
		}
		return out[a].SKU < out[b].SKU
	})
	return out
}

func lowStock(products []models.Product) []models.Product {
	out := []models.Product{}
	for _, p := range products {
		if p.IsLow() {
			out = append(out, p)
		}
	}
	return out
}

// WriteCSV writes the report as three labeled sections.
func WriteCSV(w io.Writer, r *SalesReport) error {
	cw := csv.NewWriter(w)
	records := [][]string{
		{"=== Sales Summary ==="},
		{"From", r.Start, "To", r.End},
		{"Total Orders", strconv.Itoa(r.OrderCount)},
		{"Total Sales", models.Money(r.TotalSales)},
		{},
		{"=== Top Sold Items ==="},
		{"SKU", "Name", "SoldQty"},
	}
	for _, it := range r.TopSold {
		records = append(records, []string{it.SKU, it.Name, strconv.Itoa(it.SoldQty)})
	}
	records = append(records,
		[]string{},
		[]string{"=== Low Stock (at export time) ==="},
		[]string{"SKU", "Name", "InStock", "LowStockThreshold"},
	)
	for _, p := range r.LowStock {
		records = append(records, []string{p.SKU, p.Name, strconv.Itoa(p.InStock), strconv.Itoa(p.LowStockThreshold)})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Dashboard summarizes today's sales and stock alerts.
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	products, err := loadProducts(ctx, s.store, false)
	if err != nil {
		return nil, err
	}
	orders, err := loadOrders(ctx, s.store)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Today: s.Today(), ProductCount: len(products), TodaySales: decimal.Zero}
	for _, o := range orders {
		if o.Date() == d.Today {
			d.TodayOrders++
			d.TodaySales = d.TodaySales.Add(o.Total)
		}
	}
	d.LowStock = lowStock(products)
	d.RecentOrders = newestFirst(orders, 10)
	return d, nil
}

// Orders lists every order, newest first.
func (s *ReportService) Orders(ctx context.Context) ([]models.Order, error) {
	orders, err := loadOrders(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return newestFirst(orders, 0), nil
}

// Order returns one order with its lines.
func (s *ReportService) Order(ctx context.Context, id string) (models.Order, []models.OrderItem, error) {
	orders, err := loadOrders(ctx, s.store)
	if err != nil {
		return models.Order{}, nil, err
	}
	i := slices.IndexFunc(orders, func(o models.Order) bool { return o.OrderID == id })
	if i < 0 {
		return models.Order{}, nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	all, err := loadOrderItems(ctx, s.store)
	if err != nil {
		return models.Order{}, nil, err
	}
	var items []models.OrderItem
	for _, it := range all {
		if it.OrderID == id {
			items = append(items, it)
		}
	}
	return orders[i], items, nil
}

// Movements lists the stock ledger newest first, optionally for one SKU.
func (s *ReportService) Movements(ctx context.Context, sku string) ([]models.StockMovement, error) {
	all, err := loadMovements(ctx, s.store)
	if err != nil {
		return nil, err
	}
	out := make([]models.StockMovement, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if sku == "" || all[i].SKU == sku {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// newestFirst reverses append order and keeps at most limit (0 for all).
func newestFirst(orders []models.Order, limit int) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		out = append(out, orders[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
