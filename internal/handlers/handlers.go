// Package handlers serves the point-of-sale pages. Every handler answers HTML
// by default and JSON when the client asks for it.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/i18n"
	"github.com/diewo77/go-pos/internal/middleware"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/diewo77/go-pos/validation"
	"github.com/diewo77/go-pos/view"
	"github.com/shopspring/decimal"
)

// Explicit constant for 303 See Other (Post/Redirect/Get)
const statusSeeOther = 303

// renderTemplate uses the shared view.Render to ensure layout, partials, funcs, and caching.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = middleware.TakeFlash(w, r)
	}
	if err := view.Render(w, r, name+".html", data); err != nil {
		log.Printf("[handlers] render %s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("template error")); werr != nil {
			_ = werr
		}
	}
}

// renderStatus writes status before rendering, for form pages shown with errors.
func renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if data == nil {
		data = map[string]any{}
	}
	data["Flash"] = ""
	w.WriteHeader(status)
	if err := view.Render(w, r, name+".html", data); err != nil {
		log.Printf("[handlers] render %s: %v", name, err)
	}
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// classify maps a service error to an HTTP status, an error code and details.
func classify(err error) (int, string, any) {
	var verr *services.ValidationError
	var serr *services.InsufficientStockError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "validation_failed", verr.Violations
	case errors.As(err, &serr):
		return http.StatusConflict, "insufficient_stock", serr.Shortages
	case errors.Is(err, services.ErrEmptyCart):
		return http.StatusBadRequest, services.ErrEmptyCart.Error(), nil
	case errors.Is(err, services.ErrMissingCustomer):
		return http.StatusBadRequest, services.ErrMissingCustomer.Error(), nil
	case errors.Is(err, services.ErrInvalidRange):
		return http.StatusBadRequest, services.ErrInvalidRange.Error(), nil
	case errors.Is(err, models.ErrBadNumber):
		return http.StatusBadRequest, "invalid", nil
	case errors.Is(err, services.ErrCustomerNotFound):
		return http.StatusNotFound, services.ErrCustomerNotFound.Error(), nil
	case errors.Is(err, services.ErrProductNotFound):
		return http.StatusNotFound, services.ErrProductNotFound.Error(), nil
	case errors.Is(err, services.ErrOrderNotFound):
		return http.StatusNotFound, services.ErrOrderNotFound.Error(), nil
	}
	log.Printf("[handlers] store error: %v", err)
	return http.StatusBadGateway, "store_error", err.Error()
}

// writeError answers a failed operation as JSON.
func writeError(w http.ResponseWriter, err error) {
	status, code, details := classify(err)
	httpx.JSONError(w, status, code, details)
}

// formErrors turns an error into page data: a translated message plus
// translated per-field violations.
func formErrors(r *http.Request, err error) (int, map[string]any) {
	status, code, details := classify(err)
	lang := middleware.LangFrom(r)
	data := map[string]any{"Error": i18n.T(lang, code)}
	switch d := details.(type) {
	case validation.Violations:
		data["Errors"] = translate(r, d)
	case []services.Shortage:
		data["Shortages"] = d
	case string:
		data["Detail"] = d
	}
	return status, data
}

func merge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// showError renders the shared error page, or JSON.
func showError(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) {
		writeError(w, err)
		return
	}
	status, data := formErrors(r, err)
	renderStatus(w, r, status, "error", data)
}

// formMoney parses an amount field, recording "invalid" on failure.
func formMoney(r *http.Request, field string, v validation.Violations) decimal.Decimal {
	d, err := models.ParseMoney(r.FormValue(field))
	if err != nil {
		v.Add(field, "invalid")
	}
	return d
}

// formInt parses a whole-number field, recording "invalid" on failure.
func formInt(r *http.Request, field string, v validation.Violations) int {
	n, err := models.ParseQty(r.FormValue(field))
	if err != nil {
		v.Add(field, "invalid")
	}
	return n
}

// translate renders violations in the request language.
func translate(r *http.Request, v validation.Violations) map[string]string {
	lang := middleware.LangFrom(r)
	out := make(map[string]string, len(v))
	for k, code := range v {
		out[k] = i18n.T(lang, code)
	}
	return out
}
