package models

import (
	"errors"
	"testing"

	"github.com/diewo77/go-pos/internal/sheet"
	"github.com/shopspring/decimal"
)

func TestParseQty(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"10", 10, false},
		{" 3.0 ", 3, false},
		{"", 0, false},
		{"-4", -4, false},
		{"1,200", 1200, false},
		{"2.5", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseQty(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrBadNumber) {
					t.Fatalf("ParseQty(%q) err = %v, want ErrBadNumber", tt.raw, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseQty(%q) = %d, %v; want %d", tt.raw, got, err, tt.want)
			}
		})
	}
}

func TestProductFromRow(t *testing.T) {
	p, err := ProductFromRow(sheet.Row{
		"SKU": "LIP01", "Name": "Lipstick", "RetailPrice": "50", "WholesalePrice": "40",
		"InStock": "10", "LowStockThreshold": "2", "Active": "", "Notes": "",
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !p.Active {
		t.Errorf("blank Active should count as active")
	}
	if p.InStock != 10 || p.LowStockThreshold != 2 {
		t.Errorf("unexpected stock %d/%d", p.InStock, p.LowStockThreshold)
	}
	if got := p.Row()["RetailPrice"]; got != "50.00" {
		t.Errorf("RetailPrice cell = %q", got)
	}

	if _, err := ProductFromRow(sheet.Row{"SKU": "X", "InStock": "many"}); !errors.Is(err, ErrBadNumber) {
		t.Errorf("expected ErrBadNumber, got %v", err)
	}
}

func TestProductIsLow(t *testing.T) {
	tests := []struct {
		name  string
		p     Product
		isLow bool
	}{
		{"above", Product{InStock: 7, LowStockThreshold: 2, Active: true}, false},
		{"at threshold", Product{InStock: 2, LowStockThreshold: 2, Active: true}, true},
		{"negative", Product{InStock: -1, LowStockThreshold: 0, Active: true}, true},
		{"inactive", Product{InStock: 0, LowStockThreshold: 5, Active: false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsLow(); got != tt.isLow {
				t.Errorf("IsLow() = %v, want %v", got, tt.isLow)
			}
		})
	}
}

func TestProductPriceFor(t *testing.T) {
	p := Product{RetailPrice: decimal.NewFromInt(50), WholesalePrice: decimal.NewFromInt(40)}
	if !p.PriceFor(PricingWholesale).Equal(decimal.NewFromInt(40)) {
		t.Errorf("wholesale price not used")
	}
	if !p.PriceFor(PricingRetail).Equal(decimal.NewFromInt(50)) {
		t.Errorf("retail price not used")
	}
	p.WholesalePrice = decimal.Zero
	if !p.PriceFor(PricingWholesale).Equal(decimal.NewFromInt(50)) {
		t.Errorf("zero wholesale should fall back to retail")
	}
}

func TestOrderRowAndBalance(t *testing.T) {
	o := Order{
		OrderID:  "ORD1",
		DateTime: "2024-03-05 14:00:00",
		Total:    decimal.RequireFromString("160"),
		Deposit:  decimal.RequireFromString("60.5"),
	}
	if o.Date() != "2024-03-05" {
		t.Errorf("Date() = %q", o.Date())
	}
	if got := Money(o.Balance()); got != "99.50" {
		t.Errorf("Balance() = %s", got)
	}
	back, err := OrderFromRow(o.Row())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.Total.Equal(o.Total) || back.OrderID != "ORD1" {
		t.Errorf("unexpected decoded order %+v", back)
	}
}

func TestNewOrderItemLineTotal(t *testing.T) {
	it := NewOrderItem("ORD1", "LIP01", "Lipstick", 3, decimal.RequireFromString("19.99"))
	if got := Money(it.LineTotal); got != "59.97" {
		t.Errorf("LineTotal = %s, want 59.97", got)
	}
}

func TestParseEnums(t *testing.T) {
	if c, err := ParseChannel("whatsapp"); err != nil || c != ChannelWhatsApp {
		t.Errorf("ParseChannel = %q, %v", c, err)
	}
	if _, err := ParseChannel("Telegram"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("expected ErrInvalidEnum, got %v", err)
	}
	if pt, err := ParsePricingType(""); err != nil || pt != PricingRetail {
		t.Errorf("empty pricing type should default to Retail")
	}
	if _, err := ParseManualReason("Sale"); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("Sale must not be a manual reason")
	}
}
