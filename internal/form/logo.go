package form

import (
	"encoding/base64"
	"errors"
	"html/template"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxLogoBytes bounds the size of a previewed logo.
const MaxLogoBytes = 512 << 10

var (
	ErrLogoTooLarge = errors.New("logo exceeds 512 KiB")
	ErrLogoNotImage = errors.New("logo is not an image")
	ErrLogoEncoding = errors.New("logo preview is not a base64 data URL")
)

// Logo is a local preview of an uploaded image. It never leaves the page.
type Logo struct {
	dataURL string
}

// Visible reports whether a preview is present.
func (l Logo) Visible() bool {
	return l.dataURL != ""
}

// DataURL returns the preview as a plain string, for round-tripping in a
// hidden field.
func (l Logo) DataURL() string {
	return l.dataURL
}

// Src returns the preview for an img src attribute. The value is only ever
// built from sniffed image bytes.
func (l Logo) Src() template.URL {
	return template.URL(l.dataURL)
}

// Load builds a preview from raw file bytes. Empty input clears the preview.
func (l *Logo) Load(data []byte) error {
	if len(data) == 0 {
		l.Clear()
		return nil
	}
	if len(data) > MaxLogoBytes {
		l.Clear()
		return ErrLogoTooLarge
	}

	mime := mimetype.Detect(data)
	contentType := strings.TrimSpace(strings.SplitN(mime.String(), ";", 2)[0])
	if !strings.HasPrefix(contentType, "image/") {
		l.Clear()
		return ErrLogoNotImage
	}

	l.dataURL = "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return nil
}

// Restore re-validates a preview carried over from a previous render.
func (l *Logo) Restore(dataURL string) error {
	if dataURL == "" {
		l.Clear()
		return nil
	}
	if !strings.HasPrefix(dataURL, "data:") {
		l.Clear()
		return ErrLogoEncoding
	}
	_, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok {
		l.Clear()
		return ErrLogoEncoding
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		l.Clear()
		return ErrLogoEncoding
	}
	return l.Load(data)
}

// Clear drops the preview.
func (l *Logo) Clear() {
	l.dataURL = ""
}
