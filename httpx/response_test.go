package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, http.StatusConflict, "insufficient_stock", []string{"LIP01"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `"error":"insufficient_stock"`) || !strings.Contains(body, `"LIP01"`) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestJSONNilPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusOK, nil)
	if rr.Body.String() != "null" {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestDownload(t *testing.T) {
	rr := httptest.NewRecorder()
	Download(rr, "text/csv; charset=utf-8", "report_2024-01-01_to_2024-01-31.csv", []byte("a,b\n"))
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="report_2024-01-01_to_2024-01-31.csv"` {
		t.Fatalf("disposition = %q", got)
	}
	if rr.Header().Get("Content-Length") != "4" || rr.Body.String() != "a,b\n" {
		t.Fatalf("unexpected response %q", rr.Body.String())
	}
}
