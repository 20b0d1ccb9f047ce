// Package services holds the use cases: selling, stock adjustment, catalog
// maintenance, the business profile and reporting.
package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-pos/internal/sheet"
	"github.com/diewo77/go-pos/validation"
)

var (
	ErrEmptyCart        = errors.New("cart_empty")
	ErrMissingCustomer  = errors.New("customer_name_required")
	ErrCustomerNotFound = errors.New("customer_not_found")
	ErrProductNotFound  = errors.New("product_not_found")
	ErrOrderNotFound    = errors.New("order_not_found")
	ErrInvalidRange     = errors.New("invalid_date_range")
)

// ValidationError carries per-field violation codes. Nothing was written.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, f := range e.Violations.Fields() {
		parts = append(parts, f+"="+e.Violations[f])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// Shortage is one cart line that exceeds available stock.
type Shortage struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// ShortBy is how many units are missing.
func (s Shortage) ShortBy() int { return s.Requested - s.Available }

// InsufficientStockError lists every short line. The order was not written.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		parts[i] = fmt.Sprintf("%s (requested %d, available %d)", s.SKU, s.Requested, s.Available)
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// Clock supplies the current time in the business time zone.
type Clock struct {
	Now func() time.Time
	Loc *time.Location
}

// SystemClock reads the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Loc: loc}
}

func (c Clock) now() time.Time { return c.Now().In(c.Loc) }

const idStamp = "20060102150405"

// Services bundles the use cases over one store. Every table rewrite that
// depends on a prior read runs under the shared commit lock.
type Services struct {
	Inventory *InventoryService
	Catalog   *CatalogService
	Settings  *SettingsService
	Reports   *ReportService
}

// New wires the services over store.
func New(store *sheet.Store, clock Clock, defaultBusinessName string) *Services {
	mu := &sync.Mutex{}
	catalog := &CatalogService{store: store, mu: mu, clock: clock}
	return &Services{
		Inventory: &InventoryService{store: store, mu: mu, clock: clock, suffix: randomSuffix},
		Catalog:   catalog,
		Settings:  &SettingsService{store: store, mu: mu, defaultName: defaultBusinessName},
		Reports:   &ReportService{store: store, clock: clock},
	}
}

func randomSuffix() string { return fmt.Sprintf("%04d", rand.IntN(10000)) }
