// Package fonts provides the embedded font used for measuring and rendering
// word labels.
//
// The font is the Go Regular face shipped with golang.org/x/image, so the
// same glyph metrics drive layout measurement and the SVG @font-face rule
// without any files on disk.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// RegularTTF returns the TTF font data.
func RegularTTF() []byte {
	return goregular.TTF
}

// Cache for the parsed font and the base64 encoding (computed once on first access).
var (
	parsed     *opentype.Font
	parseErr   error
	parseOnce  sync.Once
	ttfBase64  string
	base64Once sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// RegularTTFBase64 returns the TTF font data as a base64 string for
// embedding in a data: URL.
func RegularTTFBase64() string {
	base64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// FontFamily is the CSS font-family name for the embedded font.
const FontFamily = "Go"

// FallbackFontFamily provides fallback fonts for systems without the embedded font.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Helvetica, Arial, sans-serif`
