package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("fr-FR,ar;q=0.8") != "ar" {
		t.Fatalf("expected ar from second choice")
	}
	if DetectLanguage("") != "ar" {
		t.Fatalf("expected default ar")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("ar", "required") != "مطلوب" {
		t.Fatalf("expected arabic label")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to ar translation if exists
	if T("es", "required") != "مطلوب" {
		t.Fatalf("expected ar fallback for es lang")
	}
}

func TestDir(t *testing.T) {
	if Dir("ar") != "rtl" || Dir("en") != "ltr" {
		t.Fatalf("unexpected text direction")
	}
}

func TestEveryLabelHasBothLanguages(t *testing.T) {
	for code := range messages["en"] {
		if _, ok := messages["ar"][code]; !ok {
			t.Errorf("%s missing in ar", code)
		}
	}
	for code := range messages["ar"] {
		if _, ok := messages["en"][code]; !ok {
			t.Errorf("%s missing in en", code)
		}
	}
}
