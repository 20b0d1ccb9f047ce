package invoice

import (
	"strings"
	"testing"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() (models.Order, []models.OrderItem, services.BusinessProfile) {
	o := models.Order{
		OrderID:         "ORD202403051400001234",
		DateTime:        "2024-03-05 14:00:00",
		CustomerID:      "CUST20240305140000",
		CustomerName:    "Mona <b>",
		CustomerAddress: "Nasr City",
		Channel:         models.ChannelWhatsApp,
		PricingType:     models.PricingRetail,
		Subtotal:        decimal.RequireFromString("150"),
		Delivery:        decimal.RequireFromString("10"),
		Total:           decimal.RequireFromString("160"),
		Status:          models.StatusPaid,
	}
	items := []models.OrderItem{models.NewOrderItem(o.OrderID, "LIP01", "Lipstick", 3, decimal.RequireFromString("50"))}
	return o, items, services.BusinessProfile{Name: "Beauty Corner", Phone: "0100"}
}

func TestRenderIsRTLAndEscaped(t *testing.T) {
	o, items, biz := sample()
	out, err := Render(o, items, biz)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, `lang="ar" dir="rtl"`)
	assert.Contains(t, html, "ORD202403051400001234")
	assert.Contains(t, html, "Beauty Corner")
	assert.Contains(t, html, "150.00")
	assert.Contains(t, html, "160.00")
	assert.Contains(t, html, "Mona &lt;b&gt;")
	assert.NotContains(t, html, "Mona <b>")
	assert.NotContains(t, html, "<img")
	assert.NotContains(t, html, "العربون")
}

func TestRenderDepositShowsBalance(t *testing.T) {
	o, items, biz := sample()
	o.Deposit = decimal.RequireFromString("60")
	biz.LogoB64 = "iVBORw0KGgo="
	out, err := Render(o, items, biz)
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "العربون")
	assert.Contains(t, html, "100.00")
	assert.Contains(t, html, `src="data:image/png;base64,iVBORw0KGgo="`)
}

func TestRenderJPEGLogoKeepsItsType(t *testing.T) {
	o, items, biz := sample()
	biz.LogoB64 = "/9j/4AAQSkZJRgABAQ=="
	out, err := Render(o, items, biz)
	require.NoError(t, err)
	assert.Contains(t, string(out), `src="data:image/jpeg;base64,/9j/4AAQSkZJRgABAQ=="`)
}

func TestRenderDeterministic(t *testing.T) {
	o, items, biz := sample()
	a, err := Render(o, items, biz)
	require.NoError(t, err)
	b, err := Render(o, items, biz)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(string(a), "<!DOCTYPE html>"))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "invoice_ORD1.html", Filename("ORD1"))
}
