package services

import (
	"context"
	"log"
	"strings"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/sheet"
)

func fetch(ctx context.Context, store *sheet.Store, table string, fresh bool) ([]sheet.Row, error) {
	if fresh {
		return store.FetchFresh(ctx, table)
	}
	return store.Fetch(ctx, table)
}

// decodeAll decodes rows, skipping and logging the ones that fail.
func decodeAll[T any](table string, rows []sheet.Row, decode func(sheet.Row) (T, error)) []T {
	out := make([]T, 0, len(rows))
	for i, r := range rows {
		v, err := decode(r)
		if err != nil {
			log.Printf("[services] skipping %s row %d: %v", table, i+2, err)
			continue
		}
		out = append(out, v)
	}
	return out
}

func loadProducts(ctx context.Context, store *sheet.Store, fresh bool) ([]models.Product, error) {
	rows, err := fetch(ctx, store, sheet.Products, fresh)
	if err != nil {
		return nil, err
	}
	return decodeAll(sheet.Products, rows, models.ProductFromRow), nil
}

func loadCustomers(ctx context.Context, store *sheet.Store, fresh bool) ([]models.Customer, error) {
	rows, err := fetch(ctx, store, sheet.Customers, fresh)
	if err != nil {
		return nil, err
	}
	out := make([]models.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.CustomerFromRow(r))
	}
	return out, nil
}

func loadOrders(ctx context.Context, store *sheet.Store) ([]models.Order, error) {
	rows, err := store.Fetch(ctx, sheet.Orders)
	if err != nil {
		return nil, err
	}
	return decodeAll(sheet.Orders, rows, models.OrderFromRow), nil
}

func loadOrderItems(ctx context.Context, store *sheet.Store) ([]models.OrderItem, error) {
	rows, err := store.Fetch(ctx, sheet.OrderItems)
	if err != nil {
		return nil, err
	}
	return decodeAll(sheet.OrderItems, rows, models.OrderItemFromRow), nil
}

func loadMovements(ctx context.Context, store *sheet.Store) ([]models.StockMovement, error) {
	rows, err := store.Fetch(ctx, sheet.StockMovements)
	if err != nil {
		return nil, err
	}
	return decodeAll(sheet.StockMovements, rows, models.StockMovementFromRow), nil
}

// indexBy returns the position of the first row whose col equals key.
func indexBy(rows []sheet.Row, col, key string) int {
	for i, r := range rows {
		if strings.TrimSpace(r[col]) == key {
			return i
		}
	}
	return -1
}
