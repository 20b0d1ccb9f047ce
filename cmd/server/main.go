package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-pos/auth"
	"github.com/diewo77/go-pos/internal/config"
	"github.com/diewo77/go-pos/internal/db"
	"github.com/diewo77/go-pos/internal/policy"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/diewo77/go-pos/internal/session"
	"github.com/diewo77/go-pos/internal/sheet"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// cartTTL is how long an untouched cart is kept.
const cartTTL = 12 * time.Hour

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	ensureOnlyFlag  = flag.Bool("ensure-only", false, "Create or repair the worksheets and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Load configuration from environment
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	auth.SetSecret(cfg.Auth.SessionSecret)

	dbConn, err := db.Open(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to connect to store database: %v", err)
	}
	if err := db.Migrate(dbConn, cfg.Store, cfg.App.Migrations); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if *migrateOnlyFlag {
		log.Println("Migrations completed successfully")
		return
	}

	store := sheet.NewStore(db.NewSheetBackend(dbConn, cfg.Store.SpreadsheetID), cfg.Store.TTL())
	ensureCtx, cancelEnsure := context.WithTimeout(context.Background(), 30*time.Second)
	err = store.EnsureAll(ensureCtx)
	cancelEnsure()
	if err != nil {
		log.Fatalf("Worksheet setup failed: %v", err)
	}
	if *ensureOnlyFlag {
		log.Println("Worksheets ready")
		return
	}

	gate, err := policy.NewPasswordGate(cfg.Auth.Password, cfg.Auth.PasswordHash)
	if err != nil {
		log.Fatalf("Password setup failed: %v", err)
	}
	if gate.Open() {
		log.Println("WARNING: no APP_PASSWORD set; the UI is open to anyone who can reach it")
	}

	svc := services.New(store, services.SystemClock(cfg.Location()), cfg.App.BusinessName)
	routerCfg := policy.NewRouterConfig(svc, gate, session.NewManager(cartTTL))

	// Create application handler
	appHandler := NewApp(store, routerCfg)

	// Create server with config timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(appHandler),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s (dev=%v, spreadsheet=%s)", cfg.Server.Port, cfg.App.Dev, cfg.Store.SpreadsheetID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// withLogging tags each request with an ID and logs it.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s id=%s", r.Method, r.URL.Path, time.Since(start), id)
	})
}
