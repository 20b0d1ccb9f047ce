// Package session keeps the point-of-sale cart between requests. State lives
// in memory keyed by a random cookie and expires after a period of inactivity.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/google/uuid"
)

const cookieName = "pos_cart"

// Cart is the in-progress order of one browser.
type Cart struct {
	ID          string
	Lines       []services.CartLine
	CustomerID  string
	PricingType models.PricingType
	LastOrderID string
}

// Add puts qty of p at the price for the cart's pricing type, merging with an
// existing line for the same SKU.
func (c *Cart) Add(p models.Product, qty int) {
	price := p.PriceFor(c.PricingType)
	for i := range c.Lines {
		if c.Lines[i].SKU == p.SKU {
			c.Lines[i].Qty += qty
			c.Lines[i].UnitPrice = price
			return
		}
	}
	c.Lines = append(c.Lines, services.CartLine{SKU: p.SKU, Name: p.Name, Qty: qty, UnitPrice: price})
}

// Remove drops the line for sku.
func (c *Cart) Remove(sku string) {
	out := c.Lines[:0]
	for _, l := range c.Lines {
		if l.SKU != sku {
			out = append(out, l)
		}
	}
	c.Lines = out
}

// SetPricing switches the pricing type and reprices every line from products.
// Lines whose SKU is no longer listed keep their price.
func (c *Cart) SetPricing(pt models.PricingType, products []models.Product) {
	c.PricingType = pt
	for i := range c.Lines {
		for _, p := range products {
			if p.SKU == c.Lines[i].SKU {
				c.Lines[i].UnitPrice = p.PriceFor(pt)
				break
			}
		}
	}
}

// Qty is the quantity of sku already in the cart.
func (c *Cart) Qty(sku string) int {
	for _, l := range c.Lines {
		if l.SKU == sku {
			return l.Qty
		}
	}
	return 0
}

// Reset empties the cart after an order is placed.
func (c *Cart) Reset(orderID string) {
	c.Lines = nil
	c.CustomerID = ""
	c.LastOrderID = orderID
}

type entry struct {
	cart      Cart
	expiresAt time.Time
}

// Manager stores carts with a sliding TTL.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*entry
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{carts: map[string]*entry{}, ttl: ttl, now: time.Now}
}

// Load returns a copy of the caller's cart, issuing a new cookie when the
// request has none or its cart expired.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	if c, err := r.Cookie(cookieName); err == nil {
		if e, ok := m.carts[c.Value]; ok {
			e.expiresAt = m.now().Add(m.ttl)
			return clone(e.cart)
		}
	}
	id := uuid.NewString()
	m.carts[id] = &entry{cart: Cart{ID: id, PricingType: models.PricingRetail}, expiresAt: m.now().Add(m.ttl)}
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: id, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return clone(m.carts[id].cart)
}

// Save stores cart under its ID.
func (m *Manager) Save(cart Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.ID] = &entry{cart: clone(cart), expiresAt: m.now().Add(m.ttl)}
}

// Len is the number of live carts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	return len(m.carts)
}

func (m *Manager) sweep() {
	now := m.now()
	for id, e := range m.carts {
		if !now.Before(e.expiresAt) {
			delete(m.carts, id)
		}
	}
}

func clone(c Cart) Cart {
	c.Lines = append([]services.CartLine(nil), c.Lines...)
	return c
}
