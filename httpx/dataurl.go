package httpx

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// ImageDataURL builds a data: URL for a base64 image, sniffing its MIME type
// from the first bytes. Anything not recognised as an image is labelled PNG.
func ImageDataURL(b64 string) string {
	head := b64
	if len(head) > 684 {
		head = head[:684]
	}
	mime := "image/png"
	if raw, err := base64.StdEncoding.DecodeString(head); err == nil {
		if sniffed := http.DetectContentType(raw); strings.HasPrefix(sniffed, "image/") {
			mime = sniffed
		}
	}
	return "data:" + mime + ";base64," + b64
}
