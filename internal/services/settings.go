package services

import (
	"context"
	"strings"
	"sync"

	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/sheet"
)

// Settings keys of the business profile.
const (
	KeyBusinessName    = "BusinessName"
	KeyBusinessPhone   = "BusinessPhone"
	KeyBusinessAddress = "BusinessAddress"
	KeyBusinessLogo    = "BusinessLogoB64"
)

// BusinessProfile is printed on every invoice. LogoB64 is a base64 PNG.
type BusinessProfile struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	LogoB64 string `json:"logo_b64,omitempty"`
}

type SettingsService struct {
	store       *sheet.Store
	mu          *sync.Mutex
	defaultName string
}

// Profile reads the business profile. A blank name falls back to the configured default.
func (s *SettingsService) Profile(ctx context.Context) (BusinessProfile, error) {
	rows, err := s.store.Fetch(ctx, sheet.Settings)
	if err != nil {
		return BusinessProfile{}, err
	}
	kv := map[string]string{}
	for _, r := range rows {
		st := models.SettingFromRow(r)
		if _, seen := kv[st.Key]; !seen {
			kv[st.Key] = st.Value
		}
	}
	p := BusinessProfile{
		Name:    strings.TrimSpace(kv[KeyBusinessName]),
		Phone:   strings.TrimSpace(kv[KeyBusinessPhone]),
		Address: kv[KeyBusinessAddress],
		LogoB64: strings.TrimSpace(kv[KeyBusinessLogo]),
	}
	if p.Name == "" {
		p.Name = s.defaultName
	}
	return p, nil
}

// SaveProfile writes the profile keys and keeps any other settings.
// An empty LogoB64 keeps the stored logo unless clearLogo is set.
func (s *SettingsService) SaveProfile(ctx context.Context, p BusinessProfile, clearLogo bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.store.FetchFresh(ctx, sheet.Settings)
	if err != nil {
		return err
	}
	values := map[string]string{
		KeyBusinessName:    strings.TrimSpace(p.Name),
		KeyBusinessPhone:   strings.TrimSpace(p.Phone),
		KeyBusinessAddress: strings.TrimSpace(p.Address),
	}
	if p.LogoB64 != "" || clearLogo {
		values[KeyBusinessLogo] = p.LogoB64
	}
	for _, key := range []string{KeyBusinessName, KeyBusinessPhone, KeyBusinessAddress, KeyBusinessLogo} {
		val, ok := values[key]
		if !ok {
			continue
		}
		row := models.Setting{Key: key, Value: val}.Row()
		if i := indexBy(rows, "Key", key); i >= 0 {
			rows[i] = row
		} else {
			rows = append(rows, row)
		}
	}
	return s.store.Replace(ctx, sheet.Settings, rows)
}
