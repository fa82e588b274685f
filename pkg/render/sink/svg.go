package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/topiccloud/pkg/fonts"
	"github.com/matzehuels/topiccloud/pkg/scene"
)

// Category colours.
const (
	ColorPositive = "#2e7d32"
	ColorNeutral  = "#757575"
	ColorNegative = "#c62828"
)

const wordCSS = `
    .word { font-family: %s; cursor: pointer; transition: opacity 0.15s ease; }
    .word:hover { opacity: 0.7; }
    .word.positive { fill: ` + ColorPositive + `; }
    .word.neutral { fill: ` + ColorNeutral + `; }
    .word.negative { fill: ` + ColorNegative + `; }
    .word.selected { font-weight: bold; text-decoration: underline; }`

const fontFaceCSS = `
    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }`

// clickJS posts the clicked word's index to the select URL and swaps the
// returned panel HTML into #topic-panel when the SVG is inlined in a page.
const clickJS = `
    (function () {
      var base = %q;
      document.querySelectorAll('.word').forEach(function (el) {
        el.addEventListener('click', function () {
          fetch(base + el.dataset.index, { method: 'POST' })
            .then(function (r) { return r.text(); })
            .then(function (html) {
              var panel = document.getElementById('topic-panel');
              if (panel) { panel.innerHTML = html; }
              document.querySelectorAll('.word.selected').forEach(function (w) { w.classList.remove('selected'); });
              el.classList.add('selected');
            });
        });
      });
    })();`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin    float64
	embedFont bool
	clickURL  string
	selected  int
	title     string
}

// WithMargin pads the viewport by m user units on every side.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = max(0, m) } }

// WithEmbeddedFont inlines the Go Regular font so the output matches the
// measured metrics on any viewer.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// WithClickURL adds a script that POSTs to url+index when a word is clicked.
func WithClickURL(url string) SVGOption { return func(r *svgRenderer) { r.clickURL = url } }

// WithSelected marks the word at index i as selected.
func WithSelected(i int) SVGOption { return func(r *svgRenderer) { r.selected = i } }

// WithTitle adds a <title> element.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG renders s as a standalone SVG document.
func RenderSVG(s scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{selected: -1}
	for _, opt := range opts {
		opt(&r)
	}

	v := s.Viewport.Expand(r.margin)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		v.X, v.Y, v.W, v.H, v.W, v.H)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}

	renderStyle(&buf, r.embedFont)

	buf.WriteString("  <g class=\"cloud\">\n")
	for _, w := range s.Words {
		class := "word " + w.Class
		if w.Index == r.selected {
			class += " selected"
		}
		fmt.Fprintf(&buf, `    <text class="%s" x="%.2f" y="%.2f" dominant-baseline="middle" font-size="%g" data-index="%d">%s</text>`+"\n",
			class, w.X, w.Y, w.FontSize, w.Index, escapeXML(w.Label))
	}
	buf.WriteString("  </g>\n")

	if r.clickURL != "" {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", fmt.Sprintf(clickJS, r.clickURL))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderStyle(buf *bytes.Buffer, embedFont bool) {
	buf.WriteString("  <style>")
	if embedFont {
		fmt.Fprintf(buf, fontFaceCSS, fonts.FontFamily, fonts.RegularTTFBase64())
	}
	fmt.Fprintf(buf, wordCSS, fonts.FallbackFontFamily)
	buf.WriteString("\n  </style>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
