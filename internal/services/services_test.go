package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/sheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("EET", 2*3600)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	svc   *Services
	store *sheet.Store
	mb    *sheet.MemoryBackend
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mb := sheet.NewMemoryBackend()
	store := sheet.NewStore(mb, time.Minute)
	require.NoError(t, store.EnsureAll(context.Background()))
	f := &fixture{mb: mb, store: store, now: time.Date(2024, 3, 5, 14, 0, 0, 0, testLoc)}
	f.svc = New(store, Clock{Now: func() time.Time { return f.now }, Loc: testLoc}, "My Shop")
	f.svc.Inventory.SetIDSuffix(func() string { return "0001" })
	return f
}

func (f *fixture) seedProducts(t *testing.T, products ...models.Product) {
	t.Helper()
	rows := make([]sheet.Row, len(products))
	for i, p := range products {
		rows[i] = p.Row()
	}
	require.NoError(t, f.store.Replace(context.Background(), sheet.Products, rows))
}

func (f *fixture) product(t *testing.T, sku string) models.Product {
	t.Helper()
	rows, err := f.store.FetchFresh(context.Background(), sheet.Products)
	require.NoError(t, err)
	for _, r := range rows {
		if r["SKU"] == sku {
			p, err := models.ProductFromRow(r)
			require.NoError(t, err)
			return p
		}
	}
	t.Fatalf("product %s not found", sku)
	return models.Product{}
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	rows, err := f.store.FetchFresh(context.Background(), table)
	require.NoError(t, err)
	return len(rows)
}

func lipstick() models.Product {
	return models.Product{SKU: "LIP01", Name: "Lipstick", RetailPrice: dec("50"), WholesalePrice: dec("40"), InStock: 10, LowStockThreshold: 2, Active: true}
}

func gloss() models.Product {
	return models.Product{SKU: "GL01", Name: "Gloss", RetailPrice: dec("30"), InStock: 5, LowStockThreshold: 1, Active: true}
}

func order(cart ...CartLine) PlaceOrderInput {
	return PlaceOrderInput{
		Customer: CustomerRef{Name: "Mona", Phone: "0100", Address: "Cairo"},
		Cart:     cart,
		Channel:  "WhatsApp",
		Status:   "Paid",
	}
}

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name     string
		cart     []CartLine
		discount string
		delivery string
		subtotal string
		total    string
	}{
		{"single line", []CartLine{{SKU: "LIP01", Qty: 3, UnitPrice: dec("50")}}, "15", "10", "150", "145"},
		{"mixed lines", []CartLine{{SKU: "LIP01", Qty: 2, UnitPrice: dec("49.99")}, {SKU: "GL01", Qty: 1, UnitPrice: dec("30.5")}}, "5.25", "12.75", "130.48", "137.98"},
		{"fractional prices", []CartLine{{SKU: "A", Qty: 3, UnitPrice: dec("0.1")}, {SKU: "B", Qty: 7, UnitPrice: dec("19.95")}}, "0.35", "0.05", "139.95", "139.65"},
		{"discount beyond subtotal", []CartLine{{SKU: "A", Qty: 1, UnitPrice: dec("20")}}, "25", "8", "20", "3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub, total := ComputeTotals(tc.cart, dec(tc.discount), dec(tc.delivery))
			assert.True(t, sub.Sub(dec(tc.subtotal)).Abs().LessThanOrEqual(dec("0.01")), "subtotal %s", sub)
			assert.True(t, total.Sub(dec(tc.total)).Abs().LessThanOrEqual(dec("0.01")), "total %s", total)
			assert.True(t, total.Equal(sub.Sub(dec(tc.discount)).Add(dec(tc.delivery))))
		})
	}
}

func TestPlaceOrderLipstickScenario(t *testing.T) {
	f := newFixture(t)
	lip := lipstick()
	lip.LowStockThreshold = 5
	f.seedProducts(t, lip)

	in := order(CartLine{SKU: "LIP01", Qty: 3, UnitPrice: dec("50")})
	in.Delivery = dec("10")
	rec, err := f.svc.Inventory.PlaceOrder(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "ORD202403051400000001", rec.Order.OrderID)
	assert.Equal(t, "2024-03-05 14:00:00", rec.Order.DateTime)
	assert.Equal(t, "150.00", models.Money(rec.Order.Subtotal))
	assert.Equal(t, "160.00", models.Money(rec.Order.Total))
	assert.True(t, rec.CustomerCreated)
	assert.Equal(t, "CUST20240305140000", rec.Customer.CustomerID)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, "Lipstick", rec.Items[0].Name)

	p := f.product(t, "LIP01")
	assert.Equal(t, 7, p.InStock)
	assert.False(t, p.IsLow())

	moves, err := f.svc.Reports.Movements(context.Background(), "LIP01")
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, -3, moves[0].Change)
	assert.Equal(t, models.ReasonSale, moves[0].Reason)
	assert.Equal(t, rec.Order.OrderID, moves[0].Reference)

	assert.Equal(t, 1, f.count(t, sheet.Customers))
	assert.Equal(t, 1, f.count(t, sheet.Orders))
	assert.Equal(t, 1, f.count(t, sheet.OrderItems))
}

func TestPlaceOrderInsufficientStockWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick(), gloss())
	before := map[string]int{}
	for _, tbl := range sheet.Tables() {
		before[tbl] = f.mb.Updates[tbl]
	}

	_, err := f.svc.Inventory.PlaceOrder(context.Background(), order(
		CartLine{SKU: "GL01", Qty: 1, UnitPrice: dec("30")},
		CartLine{SKU: "LIP01", Qty: 11, UnitPrice: dec("50")},
		CartLine{SKU: "NOPE", Qty: 1, UnitPrice: dec("5")},
	))
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 2)
	assert.Equal(t, Shortage{SKU: "LIP01", Name: "Lipstick", Requested: 11, Available: 10}, stockErr.Shortages[0])
	assert.Equal(t, 1, stockErr.Shortages[0].ShortBy())
	assert.Equal(t, 0, stockErr.Shortages[1].Available)

	for _, tbl := range sheet.Tables() {
		assert.Equal(t, before[tbl], f.mb.Updates[tbl], "table %s was written", tbl)
	}
	assert.Equal(t, 10, f.product(t, "LIP01").InStock)
}

func TestPlaceOrderRejectsBeforeValidation(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick())
	ctx := context.Background()

	_, err := f.svc.Inventory.PlaceOrder(ctx, order())
	assert.ErrorIs(t, err, ErrEmptyCart)

	in := order(CartLine{SKU: "LIP01", Qty: 1, UnitPrice: dec("50")})
	in.Customer = CustomerRef{}
	_, err = f.svc.Inventory.PlaceOrder(ctx, in)
	assert.ErrorIs(t, err, ErrMissingCustomer)

	in = order(CartLine{SKU: "LIP01", Qty: 0, UnitPrice: dec("50")})
	in.Channel = "Telegram"
	in.Discount = dec("-1")
	_, err = f.svc.Inventory.PlaceOrder(ctx, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must_be_positive", verr.Violations["cart[0].qty"])
	assert.Equal(t, "invalid", verr.Violations["channel"])
	assert.Equal(t, "must_not_be_negative", verr.Violations["discount"])
	assert.Equal(t, 0, f.count(t, sheet.Orders))
}

func TestPlaceOrderMergesRepeatedSKU(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick())
	rec, err := f.svc.Inventory.PlaceOrder(context.Background(), order(
		CartLine{SKU: "LIP01", Qty: 2, UnitPrice: dec("50")},
		CartLine{SKU: "LIP01", Qty: 3, UnitPrice: dec("50")},
	))
	require.NoError(t, err)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, 5, rec.Items[0].Qty)
	assert.Equal(t, 5, f.product(t, "LIP01").InStock)

	_, err = f.svc.Inventory.PlaceOrder(context.Background(), order(
		CartLine{SKU: "LIP01", Qty: 1, UnitPrice: dec("50")},
		CartLine{SKU: "LIP01", Qty: 1, UnitPrice: dec("40")},
	))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "conflicting_unit_price", verr.Violations["cart.LIP01"])
}

func TestPlaceOrderDepositDoesNotReduceTotal(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick())
	in := order(CartLine{SKU: "LIP01", Qty: 2, UnitPrice: dec("50")})
	in.Discount = dec("5.50")
	in.Delivery = dec("20")
	in.Deposit = dec("30")
	rec, err := f.svc.Inventory.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "114.50", models.Money(rec.Order.Total))
	assert.Equal(t, "30.00", models.Money(rec.Order.Deposit))
	assert.Equal(t, "84.50", models.Money(rec.Order.Balance()))
}

func TestPlaceOrderExistingCustomer(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick())
	ctx := context.Background()
	c, created, err := f.svc.Catalog.UpsertCustomer(ctx, models.Customer{Name: "Ali", Address: "Giza"})
	require.NoError(t, err)
	require.True(t, created)

	in := order(CartLine{SKU: "LIP01", Qty: 1, UnitPrice: dec("50")})
	in.Customer = CustomerRef{CustomerID: c.CustomerID}
	rec, err := f.svc.Inventory.PlaceOrder(ctx, in)
	require.NoError(t, err)
	assert.False(t, rec.CustomerCreated)
	assert.Equal(t, "Ali", rec.Order.CustomerName)
	assert.Equal(t, "Giza", rec.Order.CustomerAddress)
	assert.Equal(t, 1, f.count(t, sheet.Customers))

	in.Customer = CustomerRef{CustomerID: "CUST-missing"}
	_, err = f.svc.Inventory.PlaceOrder(ctx, in)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestPlaceOrderConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick())
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Inventory.PlaceOrder(context.Background(), order(CartLine{SKU: "LIP01", Qty: 4, UnitPrice: dec("50")}))
		}(i)
	}
	wg.Wait()
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		var stockErr *InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
	}
	assert.Equal(t, 2, ok)
	assert.Equal(t, 2, f.product(t, "LIP01").InStock)
}

func TestPlaceOrderStoreFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick())
	boom := errors.New("backend unavailable")
	f.mb.Fail("update", sheet.OrderItems, boom)

	_, err := f.svc.Inventory.PlaceOrder(context.Background(), order(CartLine{SKU: "LIP01", Qty: 1, UnitPrice: dec("50")}))
	require.ErrorIs(t, err, boom)
	// Earlier writes are not rolled back and stock is untouched.
	assert.Equal(t, 1, f.count(t, sheet.Orders))
	assert.Equal(t, 10, f.product(t, "LIP01").InStock)
}

func TestAdjustStockAllowsNegative(t *testing.T) {
	f := newFixture(t)
	p := lipstick()
	p.InStock = 7
	f.seedProducts(t, p)

	res, err := f.svc.Inventory.AdjustStock(context.Background(), AdjustStockInput{SKU: "LIP01", Delta: -8, Reason: "Adjustment", Note: "breakage"})
	require.NoError(t, err)
	assert.Equal(t, -1, res.InStock)
	assert.Equal(t, "", res.Movement.Reference)
	assert.Equal(t, models.ReasonAdjustment, res.Movement.Reason)
	assert.Equal(t, -1, f.product(t, "LIP01").InStock)
	assert.True(t, f.product(t, "LIP01").IsLow())
}

func TestAdjustStockValidation(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick())
	ctx := context.Background()

	_, err := f.svc.Inventory.AdjustStock(ctx, AdjustStockInput{SKU: "NOPE", Delta: 1, Reason: "Purchase"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.svc.Inventory.AdjustStock(ctx, AdjustStockInput{SKU: "LIP01", Delta: 0, Reason: "Sale"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must_not_be_zero", verr.Violations["delta"])
	assert.Equal(t, "invalid", verr.Violations["reason"])
	assert.Equal(t, 0, f.count(t, sheet.StockMovements))
}

func TestLedgerReconcilesWithStock(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick(), gloss())
	ctx := context.Background()
	initial := map[string]int{"LIP01": 10, "GL01": 5}

	_, err := f.svc.Inventory.PlaceOrder(ctx, order(CartLine{SKU: "LIP01", Qty: 3, UnitPrice: dec("50")}, CartLine{SKU: "GL01", Qty: 2, UnitPrice: dec("30")}))
	require.NoError(t, err)
	_, err = f.svc.Inventory.AdjustStock(ctx, AdjustStockInput{SKU: "GL01", Delta: 12, Reason: "Purchase"})
	require.NoError(t, err)
	_, err = f.svc.Inventory.AdjustStock(ctx, AdjustStockInput{SKU: "LIP01", Delta: -1, Reason: "ReturnOut"})
	require.NoError(t, err)
	_, err = f.svc.Inventory.PlaceOrder(ctx, order(CartLine{SKU: "GL01", Qty: 4, UnitPrice: dec("30")}))
	require.NoError(t, err)

	moves, err := f.svc.Reports.Movements(ctx, "")
	require.NoError(t, err)
	sum := map[string]int{}
	for _, m := range moves {
		sum[m.SKU] += m.Change
	}
	for sku, start := range initial {
		assert.Equal(t, start+sum[sku], f.product(t, sku).InStock, sku)
	}
}

func TestUpsertProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Catalog.UpsertProduct(ctx, lipstick())
	require.NoError(t, err)
	assert.True(t, created)

	p := lipstick()
	p.Name = "Lipstick Red"
	p.Active = false
	created, err = f.svc.Catalog.UpsertProduct(ctx, p)
	require.NoError(t, err)
	assert.False(t, created)

	all, err := f.svc.Catalog.Products(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Lipstick Red", all[0].Name)
	active, err := f.svc.Catalog.ActiveProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = f.svc.Catalog.UpsertProduct(ctx, models.Product{SKU: " ", RetailPrice: dec("-1")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name", "retail_price", "sku"}, verr.Violations.Fields())
}

func TestUpsertCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, created, err := f.svc.Catalog.UpsertCustomer(ctx, models.Customer{Name: "Ali"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "CUST20240305140000", c.CustomerID)

	c.Phone = "0111"
	_, created, err = f.svc.Catalog.UpsertCustomer(ctx, c)
	require.NoError(t, err)
	assert.False(t, created)
	got, err := f.svc.Catalog.Customer(ctx, c.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "0111", got.Phone)

	other, created, err := f.svc.Catalog.UpsertCustomer(ctx, models.Customer{Name: "Sara"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "CUST20240305140000-2", other.CustomerID)

	_, _, err = f.svc.Catalog.UpsertCustomer(ctx, models.Customer{})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSettingsProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.svc.Settings.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Shop", p.Name)

	require.NoError(t, f.store.Append(ctx, sheet.Settings, sheet.Row{"Key": "Currency", "Value": "EGP"}))
	require.NoError(t, f.svc.Settings.SaveProfile(ctx, BusinessProfile{Name: "Beauty Corner", Phone: "0100", LogoB64: "iVBORw0"}, false))
	require.NoError(t, f.svc.Settings.SaveProfile(ctx, BusinessProfile{Name: "Beauty Corner", Address: "Nasr City"}, false))

	p, err = f.svc.Settings.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, BusinessProfile{Name: "Beauty Corner", Address: "Nasr City", LogoB64: "iVBORw0"}, p)
	assert.Equal(t, 5, f.count(t, sheet.Settings))

	require.NoError(t, f.svc.Settings.SaveProfile(ctx, BusinessProfile{Name: "Beauty Corner"}, true))
	p, err = f.svc.Settings.Profile(ctx)
	require.NoError(t, err)
	assert.Empty(t, p.LogoB64)
}

func seedOrders(t *testing.T, f *fixture, orders []models.Order, items []models.OrderItem) {
	t.Helper()
	ctx := context.Background()
	rows := make([]sheet.Row, len(orders))
	for i, o := range orders {
		rows[i] = o.Row()
	}
	require.NoError(t, f.store.Replace(ctx, sheet.Orders, rows))
	rows = make([]sheet.Row, len(items))
	for i, it := range items {
		rows[i] = it.Row()
	}
	require.NoError(t, f.store.Replace(ctx, sheet.OrderItems, rows))
}

func TestSalesReport(t *testing.T) {
	f := newFixture(t)
	low := gloss()
	low.InStock = 1
	f.seedProducts(t, lipstick(), low)
	seedOrders(t, f,
		[]models.Order{
			{OrderID: "A", DateTime: "2024-03-01 09:00:00", Total: dec("100.00")},
			{OrderID: "B", DateTime: "2024-03-05 23:59:59", Total: dec("250.50")},
			{OrderID: "C", DateTime: "2024-03-06 00:00:00", Total: dec("999")},
		},
		[]models.OrderItem{
			models.NewOrderItem("A", "GL01", "Gloss", 2, dec("30")),
			models.NewOrderItem("B", "LIP01", "Lipstick", 2, dec("50")),
			models.NewOrderItem("B", "GL01", "Gloss", 1, dec("30")),
			models.NewOrderItem("C", "LIP01", "Lipstick", 9, dec("50")),
		},
	)

	rep, err := f.svc.Reports.SalesReport(context.Background(), "2024-03-01", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.OrderCount)
	assert.Equal(t, "350.50", models.Money(rep.TotalSales))
	assert.Equal(t, []SoldItem{{SKU: "GL01", Name: "Gloss", SoldQty: 3}, {SKU: "LIP01", Name: "Lipstick", SoldQty: 2}}, rep.TopSold)
	require.Len(t, rep.LowStock, 1)
	assert.Equal(t, "GL01", rep.LowStock[0].SKU)
	assert.Equal(t, "report_2024-03-01_to_2024-03-05.csv", rep.Filename())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rep))
	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"=== Sales Summary ==="}, records[0])
	assert.Equal(t, []string{"From", "2024-03-01", "To", "2024-03-05"}, records[1])
	assert.Equal(t, []string{"Total Orders", "2"}, records[2])
	assert.Equal(t, []string{"Total Sales", "350.50"}, records[3])
	assert.Contains(t, buf.String(), "=== Top Sold Items ===")
	assert.Contains(t, buf.String(), "=== Low Stock (at export time) ===")
}

func TestSalesReportRejectsBadRange(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Reports.SalesReport(context.Background(), "2024-03-05", "2024-03-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = f.svc.Reports.SalesReport(context.Background(), "March", "2024-03-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDashboardAndOrderLookup(t *testing.T) {
	f := newFixture(t)
	f.seedProducts(t, lipstick(), gloss())
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := f.svc.Inventory.AdjustStock(ctx, AdjustStockInput{SKU: "GL01", Delta: 1, Reason: "Purchase"})
		require.NoError(t, err)
	}
	rec, err := f.svc.Inventory.PlaceOrder(ctx, order(CartLine{SKU: "LIP01", Qty: 9, UnitPrice: dec("50")}))
	require.NoError(t, err)

	d, err := f.svc.Reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", d.Today)
	assert.Equal(t, 2, d.ProductCount)
	assert.Equal(t, 1, d.TodayOrders)
	assert.Equal(t, "450.00", models.Money(d.TodaySales))
	require.Len(t, d.LowStock, 1)
	assert.Equal(t, "LIP01", d.LowStock[0].SKU)
	require.Len(t, d.RecentOrders, 1)

	o, items, err := f.svc.Reports.Order(ctx, rec.Order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, rec.Order.Total.String(), o.Total.String())
	assert.Len(t, items, 1)

	_, _, err = f.svc.Reports.Order(ctx, "ORD-none")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
