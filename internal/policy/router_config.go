package policy

import (
	"github.com/diewo77/go-pos/internal/handlers"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/diewo77/go-pos/internal/session"
)

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// Gate guards every page except login and health
	Gate *PasswordGate

	AuthHandler *handlers.AuthHandler

	// Business handlers
	DashboardHandler *handlers.DashboardHandler
	POSHandler       *handlers.POSHandler
	ProductHandler   *handlers.ProductHandler
	CustomerHandler  *handlers.CustomerHandler
	StockHandler     *handlers.StockHandler
	OrderHandler     *handlers.OrderHandler
	ReportHandler    *handlers.ReportHandler
	SettingsHandler  *handlers.SettingsHandler
}

// NewRouterConfig wires the handlers to the services, the cart sessions and
// the password gate.
func NewRouterConfig(svc *services.Services, gate *PasswordGate, carts *session.Manager) *RouterConfig {
	return &RouterConfig{
		Gate:             gate,
		AuthHandler:      handlers.NewAuthHandler(gate),
		DashboardHandler: handlers.NewDashboardHandler(svc.Reports),
		POSHandler:       handlers.NewPOSHandler(svc, carts),
		ProductHandler:   handlers.NewProductHandler(svc.Catalog),
		CustomerHandler:  handlers.NewCustomerHandler(svc.Catalog),
		StockHandler:     handlers.NewStockHandler(svc),
		OrderHandler:     handlers.NewOrderHandler(svc),
		ReportHandler:    handlers.NewReportHandler(svc.Reports),
		SettingsHandler:  handlers.NewSettingsHandler(svc.Settings),
	}
}
