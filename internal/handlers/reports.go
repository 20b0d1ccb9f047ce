package handlers

import (
	"bytes"
	"net/http"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/services"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// dates reads start/end from the query; both default to today.
func (h *ReportHandler) dates(r *http.Request) (string, string) {
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if start == "" {
		start = h.reports.Today()
	}
	if end == "" {
		end = h.reports.Today()
	}
	return start, end
}

func (h *ReportHandler) Show(w http.ResponseWriter, r *http.Request) {
	start, end := h.dates(r)
	report, err := h.reports.SalesReport(r.Context(), start, end)
	if err != nil {
		if wantsJSON(r) {
			writeError(w, err)
			return
		}
		status, data := formErrors(r, err)
		data["Start"], data["End"] = start, end
		renderStatus(w, r, status, "reports", data)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, report)
		return
	}
	renderTemplate(w, r, "reports", map[string]any{
		"Start":  start,
		"End":    end,
		"Report": report,
	})
}

// Export downloads the report as CSV.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	start, end := h.dates(r)
	report, err := h.reports.SalesReport(r.Context(), start, end)
	if err != nil {
		showError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, report); err != nil {
		showError(w, r, err)
		return
	}
	httpx.Download(w, "text/csv; charset=utf-8", report.Filename(), buf.Bytes())
}
