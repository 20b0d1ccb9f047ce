package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-pos/httpx"
)

// Pinger is anything that can confirm the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the store answers within two seconds.
func Health(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
