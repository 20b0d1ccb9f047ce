package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/sheet"
	"github.com/diewo77/go-pos/validation"
	"github.com/shopspring/decimal"
)

// CartLine is one product in the cart with the unit price chosen at the counter.
type CartLine struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineTotal is Qty * UnitPrice.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// CustomerRef names an existing customer by ID or describes a new one.
type CustomerRef struct {
	CustomerID string
	Name       string
	Phone      string
	Address    string
}

type PlaceOrderInput struct {
	Customer    CustomerRef
	Cart        []CartLine
	Discount    decimal.Decimal
	Delivery    decimal.Decimal
	Deposit     decimal.Decimal
	Channel     string
	PricingType string
	Status      string
	Notes       string
}

// OrderReceipt is what PlaceOrder wrote.
type OrderReceipt struct {
	Order           models.Order
	Items           []models.OrderItem
	Movements       []models.StockMovement
	Customer        models.Customer
	CustomerCreated bool
}

type AdjustStockInput struct {
	SKU    string
	Delta  int
	Reason string
	Note   string
}

type AdjustStockResult struct {
	Movement models.StockMovement
	InStock  int
}

// InventoryService records sales and manual stock changes.
type InventoryService struct {
	store  *sheet.Store
	mu     *sync.Mutex
	clock  Clock
	suffix func() string
}

// SetIDSuffix overrides the random digits appended to order IDs.
func (s *InventoryService) SetIDSuffix(f func() string) { s.suffix = f }

// ComputeTotals returns Subtotal and Total for a cart. The deposit does not
// reduce Total.
func ComputeTotals(cart []CartLine, discount, delivery decimal.Decimal) (subtotal, total decimal.Decimal) {
	for _, l := range cart {
		subtotal = subtotal.Add(l.LineTotal())
	}
	total = subtotal.Sub(discount).Add(delivery)
	return
}

// MergeCart sums quantities of repeated SKUs, keeping first-seen order.
// The same SKU at two unit prices is reported in v.
func MergeCart(cart []CartLine, v validation.Violations) []CartLine {
	out := make([]CartLine, 0, len(cart))
	pos := map[string]int{}
	for _, l := range cart {
		l.SKU = strings.TrimSpace(l.SKU)
		i, seen := pos[l.SKU]
		if !seen {
			pos[l.SKU] = len(out)
			out = append(out, l)
			continue
		}
		if !out[i].UnitPrice.Equal(l.UnitPrice) {
			v.Add("cart."+l.SKU, "conflicting_unit_price")
			continue
		}
		out[i].Qty += l.Qty
	}
	return out
}

type orderHeader struct {
	channel models.Channel
	pricing models.PricingType
	status  models.OrderStatus
}

func validateOrder(in PlaceOrderInput) (orderHeader, []CartLine, error) {
	var h orderHeader
	if len(in.Cart) == 0 {
		return h, nil, ErrEmptyCart
	}
	if strings.TrimSpace(in.Customer.CustomerID) == "" && strings.TrimSpace(in.Customer.Name) == "" {
		return h, nil, ErrMissingCustomer
	}
	v := validation.Violations{}
	for i, l := range in.Cart {
		key := fmt.Sprintf("cart[%d]", i)
		validation.Required(key+".sku", l.SKU, v)
		validation.PositiveInt(key+".qty", l.Qty, v)
		validation.NonNegative(key+".unit_price", l.UnitPrice, v)
	}
	validation.NonNegative("discount", in.Discount, v)
	validation.NonNegative("delivery", in.Delivery, v)
	validation.NonNegative("deposit", in.Deposit, v)
	var err error
	if h.channel, err = models.ParseChannel(in.Channel); err != nil {
		v.Add("channel", "invalid")
	}
	if h.pricing, err = models.ParsePricingType(in.PricingType); err != nil {
		v.Add("pricing_type", "invalid")
	}
	status := in.Status
	if strings.TrimSpace(status) == "" {
		status = string(models.StatusPaid)
	}
	if h.status, err = models.ParseStatus(status); err != nil {
		v.Add("status", "invalid")
	}
	cart := MergeCart(in.Cart, v)
	if err := invalid(v); err != nil {
		return h, nil, err
	}
	return h, cart, nil
}

// PlaceOrder validates the cart against a fresh read of stock and, only if
// every line fits, writes the customer (when new), the order, its items, the
// sale movements and the decremented product table, in that order.
// A store failure part way leaves the earlier writes in place.
func (s *InventoryService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*OrderReceipt, error) {
	header, cart, err := validateOrder(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	productRows, err := s.store.FetchFresh(ctx, sheet.Products)
	if err != nil {
		return nil, err
	}
	var shortages []Shortage
	positions := make([]int, len(cart))
	stock := make([]int, len(cart))
	for i, l := range cart {
		positions[i] = indexBy(productRows, "SKU", l.SKU)
		available := 0
		name := l.Name
		if positions[i] >= 0 {
			p, err := models.ProductFromRow(productRows[positions[i]])
			if err != nil {
				return nil, err
			}
			available = p.InStock
			if name == "" {
				name = p.Name
			}
		}
		cart[i].Name = name
		stock[i] = available
		if l.Qty > available {
			shortages = append(shortages, Shortage{SKU: l.SKU, Name: name, Requested: l.Qty, Available: available})
		}
	}
	if len(shortages) > 0 {
		return nil, &InsufficientStockError{Shortages: shortages}
	}

	now := s.clock.now()
	customer, created, err := s.resolveCustomer(ctx, in.Customer, now)
	if err != nil {
		return nil, err
	}

	subtotal, total := ComputeTotals(cart, in.Discount, in.Delivery)
	stamp := now.Format(models.DateTimeLayout)
	order := models.Order{
		OrderID:         "ORD" + now.Format(idStamp) + s.suffix(),
		DateTime:        stamp,
		CustomerID:      customer.CustomerID,
		CustomerName:    customer.Name,
		CustomerAddress: customer.Address,
		Channel:         header.channel,
		PricingType:     header.pricing,
		Subtotal:        subtotal,
		Discount:        in.Discount,
		Delivery:        in.Delivery,
		Deposit:         in.Deposit,
		Total:           total,
		Status:          header.status,
		Notes:           strings.TrimSpace(in.Notes),
	}
	items := make([]models.OrderItem, len(cart))
	itemRows := make([]sheet.Row, len(cart))
	movements := make([]models.StockMovement, len(cart))
	movementRows := make([]sheet.Row, len(cart))
	for i, l := range cart {
		items[i] = models.NewOrderItem(order.OrderID, l.SKU, l.Name, l.Qty, l.UnitPrice)
		itemRows[i] = items[i].Row()
		movements[i] = models.StockMovement{
			Timestamp: stamp,
			SKU:       l.SKU,
			Change:    -l.Qty,
			Reason:    models.ReasonSale,
			Reference: order.OrderID,
		}
		movementRows[i] = movements[i].Row()
	}

	if created {
		if err := s.store.Append(ctx, sheet.Customers, customer.Row()); err != nil {
			return nil, err
		}
	}
	if err := s.store.Append(ctx, sheet.Orders, order.Row()); err != nil {
		return nil, err
	}
	if err := s.store.Append(ctx, sheet.OrderItems, itemRows...); err != nil {
		return nil, err
	}
	if err := s.store.Append(ctx, sheet.StockMovements, movementRows...); err != nil {
		return nil, err
	}
	for i, l := range cart {
		productRows[positions[i]]["InStock"] = strconv.Itoa(stock[i] - l.Qty)
	}
	if err := s.store.Replace(ctx, sheet.Products, productRows); err != nil {
		return nil, err
	}

	return &OrderReceipt{
		Order:           order,
		Items:           items,
		Movements:       movements,
		Customer:        customer,
		CustomerCreated: created,
	}, nil
}

func (s *InventoryService) resolveCustomer(ctx context.Context, ref CustomerRef, now time.Time) (models.Customer, bool, error) {
	rows, err := s.store.FetchFresh(ctx, sheet.Customers)
	if err != nil {
		return models.Customer{}, false, err
	}
	id := strings.TrimSpace(ref.CustomerID)
	if id == "" {
		return models.Customer{
			CustomerID: newCustomerID(rows, now),
			Name:       strings.TrimSpace(ref.Name),
			Phone:      strings.TrimSpace(ref.Phone),
			Address:    strings.TrimSpace(ref.Address),
		}, true, nil
	}
	for _, r := range rows {
		c := models.CustomerFromRow(r)
		if c.CustomerID == id {
			if addr := strings.TrimSpace(ref.Address); addr != "" {
				c.Address = addr
			}
			return c, false, nil
		}
	}
	return models.Customer{}, false, fmt.Errorf("%w: %s", ErrCustomerNotFound, id)
}

// AdjustStock records a manual movement and applies it to InStock. Unlike a
// sale it does not refuse to take stock below zero.
func (s *InventoryService) AdjustStock(ctx context.Context, in AdjustStockInput) (*AdjustStockResult, error) {
	sku := strings.TrimSpace(in.SKU)
	v := validation.Violations{}
	validation.Required("sku", sku, v)
	validation.NonZeroInt("delta", in.Delta, v)
	reason, err := models.ParseManualReason(in.Reason)
	if err != nil {
		v.Add("reason", "invalid")
	}
	if err := invalid(v); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.store.FetchFresh(ctx, sheet.Products)
	if err != nil {
		return nil, err
	}
	i := indexBy(rows, "SKU", sku)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, sku)
	}
	p, err := models.ProductFromRow(rows[i])
	if err != nil {
		return nil, err
	}
	m := models.StockMovement{
		Timestamp: s.clock.now().Format(models.DateTimeLayout),
		SKU:       sku,
		Change:    in.Delta,
		Reason:    reason,
		Note:      strings.TrimSpace(in.Note),
	}
	if err := s.store.Append(ctx, sheet.StockMovements, m.Row()); err != nil {
		return nil, err
	}
	newStock := p.InStock + in.Delta
	rows[i]["InStock"] = strconv.Itoa(newStock)
	if err := s.store.Replace(ctx, sheet.Products, rows); err != nil {
		return nil, err
	}
	return &AdjustStockResult{Movement: m, InStock: newStock}, nil
}
