package main

import (
	"net/http"

	"github.com/diewo77/go-pos/auth"
	"github.com/diewo77/go-pos/internal/handlers"
	"github.com/diewo77/go-pos/internal/middleware"
	"github.com/diewo77/go-pos/internal/policy"
	"github.com/diewo77/go-pos/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	store     handlers.Pinger
	routerCfg *policy.RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(store handlers.Pinger, routerCfg *policy.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		store:     store,
		routerCfg: routerCfg,
	}
	view.SetLangResolver(middleware.LangFrom)
	view.SetThemeResolver(middleware.ThemeFrom)
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Apply global middleware: auth context + preferences (language, theme)
	handler := auth.Middleware(middleware.Prefs(a.mux))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler

	a.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	a.mux.HandleFunc("GET /login", ah.Login)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("GET /healthz", handlers.Health(a.store))

	// ─────────────────────────────────────────────────────────────────────────
	// Protected routes (require the shared password unless none is set)
	// ─────────────────────────────────────────────────────────────────────────
	dh := a.routerCfg.DashboardHandler
	a.mux.Handle("GET /dashboard", a.requireAuth(dh.Show))

	// Order entry
	pos := a.routerCfg.POSHandler
	a.mux.Handle("GET /pos", a.requireAuth(pos.Show))
	a.mux.Handle("POST /pos/items", a.requireAuth(pos.AddItem))
	a.mux.Handle("POST /pos/items/{sku}/remove", a.requireAuth(pos.RemoveItem))
	a.mux.Handle("POST /pos/pricing", a.requireAuth(pos.SetPricing))
	a.mux.Handle("POST /pos/checkout", a.requireAuth(pos.Checkout))

	// Products
	ph := a.routerCfg.ProductHandler
	a.mux.Handle("GET /products", a.requireAuth(ph.List))
	a.mux.Handle("GET /products/new", a.requireAuth(ph.New))
	a.mux.Handle("POST /products", a.requireAuth(ph.Save))
	a.mux.Handle("GET /products/{sku}/edit", a.requireAuth(ph.Edit))

	// Customers
	ch := a.routerCfg.CustomerHandler
	a.mux.Handle("GET /customers", a.requireAuth(ch.List))
	a.mux.Handle("GET /customers/new", a.requireAuth(ch.New))
	a.mux.Handle("POST /customers", a.requireAuth(ch.Save))
	a.mux.Handle("GET /customers/{id}/edit", a.requireAuth(ch.Edit))

	// Stock
	sh := a.routerCfg.StockHandler
	a.mux.Handle("GET /stock", a.requireAuth(sh.Show))
	a.mux.Handle("POST /stock/adjust", a.requireAuth(sh.Adjust))

	// Orders and invoices
	oh := a.routerCfg.OrderHandler
	a.mux.Handle("GET /orders", a.requireAuth(oh.List))
	a.mux.Handle("POST /orders", a.requireAuth(oh.Create))
	a.mux.Handle("GET /orders/{id}", a.requireAuth(oh.View))
	a.mux.Handle("GET /orders/{id}/invoice", a.requireAuth(oh.Invoice))

	// Reports
	rh := a.routerCfg.ReportHandler
	a.mux.Handle("GET /reports", a.requireAuth(rh.Show))
	a.mux.Handle("GET /reports/export", a.requireAuth(rh.Export))

	// Business settings
	st := a.routerCfg.SettingsHandler
	a.mux.Handle("GET /settings", a.requireAuth(st.Edit))
	a.mux.Handle("POST /settings", a.requireAuth(st.Update))

	// ─────────────────────────────────────────────────────────────────────────
	// Static files
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// requireAuth wraps a handler to require authentication.
func (a *App) requireAuth(next http.HandlerFunc) http.Handler {
	return a.routerCfg.Gate.Require(next)
}
