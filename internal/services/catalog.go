package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/sheet"
	"github.com/diewo77/go-pos/validation"
)

// CatalogService maintains products and customers. Neither can be deleted.
type CatalogService struct {
	store *sheet.Store
	mu    *sync.Mutex
	clock Clock
}

// newCustomerID is CUST plus a timestamp, suffixed when that ID is taken.
func newCustomerID(rows []sheet.Row, now time.Time) string {
	base := "CUST" + now.Format(idStamp)
	id := base
	for n := 2; indexBy(rows, "CustomerID", id) >= 0; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

// Products lists the catalog in sheet order.
func (s *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	return loadProducts(ctx, s.store, false)
}

// ActiveProducts is what the point of sale offers.
func (s *CatalogService) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	all, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogService) Product(ctx context.Context, sku string) (models.Product, error) {
	all, err := s.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	sku = strings.TrimSpace(sku)
	for _, p := range all {
		if p.SKU == sku {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, sku)
}

func (s *CatalogService) Customers(ctx context.Context) ([]models.Customer, error) {
	return loadCustomers(ctx, s.store, false)
}

func (s *CatalogService) Customer(ctx context.Context, id string) (models.Customer, error) {
	all, err := s.Customers(ctx)
	if err != nil {
		return models.Customer{}, err
	}
	id = strings.TrimSpace(id)
	for _, c := range all {
		if c.CustomerID == id {
			return c, nil
		}
	}
	return models.Customer{}, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
}

// UpsertProduct overwrites the row with the same SKU or appends a new one.
// It reports whether a row was appended.
func (s *CatalogService) UpsertProduct(ctx context.Context, p models.Product) (bool, error) {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	v := validation.Violations{}
	validation.Required("sku", p.SKU, v)
	validation.Required("name", p.Name, v)
	validation.NonNegative("retail_price", p.RetailPrice, v)
	validation.NonNegative("wholesale_price", p.WholesalePrice, v)
	validation.NonNegativeInt("in_stock", p.InStock, v)
	validation.NonNegativeInt("low_stock_threshold", p.LowStockThreshold, v)
	if err := invalid(v); err != nil {
		return false, err
	}
	var created bool
	err := s.upsert(ctx, sheet.Products, "SKU", func([]sheet.Row) (string, sheet.Row) {
		return p.SKU, p.Row()
	}, &created)
	return created, err
}

// UpsertCustomer assigns a CustomerID when blank, then overwrites or appends.
func (s *CatalogService) UpsertCustomer(ctx context.Context, c models.Customer) (models.Customer, bool, error) {
	c.CustomerID = strings.TrimSpace(c.CustomerID)
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	v := validation.Violations{}
	validation.Required("name", c.Name, v)
	if err := invalid(v); err != nil {
		return c, false, err
	}
	var created bool
	err := s.upsert(ctx, sheet.Customers, "CustomerID", func(rows []sheet.Row) (string, sheet.Row) {
		if c.CustomerID == "" {
			c.CustomerID = newCustomerID(rows, s.clock.now())
		}
		return c.CustomerID, c.Row()
	}, &created)
	return c, created, err
}

// upsert runs build against a fresh read so generated keys see every row.
func (s *CatalogService) upsert(ctx context.Context, table, keyCol string, build func([]sheet.Row) (string, sheet.Row), created *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.store.FetchFresh(ctx, table)
	if err != nil {
		return err
	}
	key, row := build(rows)
	*created = false
	if i := indexBy(rows, keyCol, key); i >= 0 {
		rows[i] = row
	} else {
		rows = append(rows, row)
		*created = true
	}
	return s.store.Replace(ctx, table, rows)
}
