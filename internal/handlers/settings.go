package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"github.com/diewo77/go-pos/httpx"
	"github.com/diewo77/go-pos/internal/middleware"
	"github.com/diewo77/go-pos/internal/services"
	"github.com/diewo77/go-pos/validation"
)

// maxLogoBytes caps the uploaded logo; the encoded value must fit in one cell.
const maxLogoBytes = 1 << 20

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	p, err := h.settings.Profile(r.Context())
	if err != nil {
		showError(w, r, err)
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, p)
		return
	}
	renderTemplate(w, r, "settings", map[string]any{"Profile": p})
}

// Update saves the business profile. A logo upload replaces the stored one;
// remove_logo clears it.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes+64<<10)
	p := services.BusinessProfile{}
	v := validation.Violations{}
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		v.Add("logo", "out_of_range")
	}
	p.Name = r.FormValue("name")
	p.Phone = r.FormValue("phone")
	p.Address = r.FormValue("address")
	if v.Empty() {
		if logo, err := readLogo(r); err != nil {
			v.Add("logo", "invalid")
		} else {
			p.LogoB64 = logo
		}
	}

	var err error
	if v.Empty() {
		err = h.settings.SaveProfile(r.Context(), p, r.FormValue("remove_logo") == "on")
	} else {
		err = &services.ValidationError{Violations: v}
	}
	if err != nil {
		if wantsJSON(r) {
			writeError(w, err)
			return
		}
		status, data := formErrors(r, err)
		renderStatus(w, r, status, "settings", merge(data, map[string]any{"Profile": p}))
		return
	}
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, p)
		return
	}
	middleware.Flash(w, r, "settings_saved")
	http.Redirect(w, r, "/settings", statusSeeOther)
}

var errNotImage = errors.New("logo is not a PNG or JPEG image")

// readLogo returns the uploaded logo as base64, or "" when none was sent.
func readLogo(r *http.Request) (string, error) {
	f, _, err := r.FormFile("logo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()
	b, err := io.ReadAll(io.LimitReader(f, maxLogoBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", nil
	}
	if len(b) > maxLogoBytes {
		return "", errNotImage
	}
	switch http.DetectContentType(b) {
	case "image/png", "image/jpeg":
	default:
		return "", errNotImage
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
