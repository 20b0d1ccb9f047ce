package view

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"layout.html":             `<html lang="{{lang}}" dir="{{dir}}">{{template "content" .}}</html>`,
		"page.html":               `{{define "content"}}{{t "nav.orders"}} {{money .Total}} {{template "stat-card" (dict "Label" "n" "Value" 3)}}{{end}}`,
		"partials/stat-card.html": `{{define "stat-card"}}[{{.Label}}={{.Value}}]{{end}}`,
	}
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRenderUsesLayoutPartialsAndLanguage(t *testing.T) {
	ResetForTests()
	SetBaseDir(writeTemplates(t))
	defer ResetForTests()
	SetLangResolver(func(r *http.Request) string { return r.URL.Query().Get("lang") })
	defer SetLangResolver(func(*http.Request) string { return "ar" })

	render := func(lang string) string {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/?lang="+lang, nil)
		if err := Render(rr, req, "page.html", map[string]any{"Total": decimal.RequireFromString("12.5")}); err != nil {
			t.Fatalf("render: %v", err)
		}
		return rr.Body.String()
	}

	en := render("en")
	if !strings.Contains(en, `dir="ltr"`) || !strings.Contains(en, "Orders 12.50") || !strings.Contains(en, "[n=3]") {
		t.Fatalf("unexpected english output %q", en)
	}
	// cached per language, so Arabic must not reuse the English funcs
	ar := render("ar")
	if !strings.Contains(ar, `dir="rtl"`) || strings.Contains(ar, "Orders") {
		t.Fatalf("unexpected arabic output %q", ar)
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	ResetForTests()
	SetBaseDir(writeTemplates(t))
	defer ResetForTests()
	rr := httptest.NewRecorder()
	if err := Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), "nope.html", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestFuncsLogoAndHelperSet(t *testing.T) {
	fm := Funcs(httptest.NewRequest(http.MethodGet, "/", nil))
	for _, name := range []string{"add", "year"} {
		if _, ok := fm[name]; ok {
			t.Errorf("unexpected template func %q", name)
		}
	}
	logo := fm["logo"].(func(string) template.URL)
	if got := string(logo("/9j/4AAQSkZJRgABAQ==")); !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Fatalf("jpeg logo = %q", got)
	}
	if got := string(logo("iVBORw0KGgo=")); !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Fatalf("png logo = %q", got)
	}
}
