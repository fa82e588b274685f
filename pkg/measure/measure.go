// Package measure computes the intrinsic bounding box of a rendered label.
//
// The layout engine only consumes boxes; this package is where they come
// from. Three measurers are provided:
//
//   - [Fallback] returns the fixed 50x5 box used when no text metrics exist
//   - [Estimate] approximates width from the rune count
//   - [Font] reads real glyph advances from the embedded Go Regular font
//
// [MeasureAll] applies a measurer to a whole word list and substitutes the
// fallback box for any label that cannot be measured, so layout always has
// a box for every word.
package measure

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/geom"
)

// Measurer returns the intrinsic box of label rendered at the given font size.
// Only W and H of the result are meaningful.
type Measurer interface {
	Measure(label string, size float64) (geom.Box, error)
}

// Func adapts a function to the Measurer interface.
type Func func(label string, size float64) (geom.Box, error)

// Measure calls f.
func (f Func) Measure(label string, size float64) (geom.Box, error) { return f(label, size) }

// FallbackBox is substituted whenever a label has no usable measurement.
var FallbackBox = geom.Box{X: 0, Y: 0, W: 50, H: 5}

// Kind names accepted by New.
const (
	KindFallback = "fallback"
	KindEstimate = "estimate"
	KindFont     = "font"
)

// ValidKinds is the set of supported measurer kinds.
var ValidKinds = map[string]bool{
	KindFallback: true,
	KindEstimate: true,
	KindFont:     true,
}

// New returns the measurer for kind.
func New(kind string) (Measurer, error) {
	switch kind {
	case KindFallback:
		return Fallback{}, nil
	case KindEstimate, "":
		return Estimate{}, nil
	case KindFont:
		return NewFont()
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig,
		"invalid metrics: %q (must be one of: fallback, estimate, font)", kind)
}

// Fallback measures every label as FallbackBox.
type Fallback struct{}

// Measure implements Measurer.
func (Fallback) Measure(string, float64) (geom.Box, error) { return FallbackBox, nil }

// DefaultCharWidth is the average glyph advance as a fraction of the font size.
const DefaultCharWidth = 0.55

// Estimate approximates text width as runes x size x CharWidth and height as size.
type Estimate struct {
	CharWidth float64 // zero means DefaultCharWidth
}

// Measure implements Measurer.
func (e Estimate) Measure(label string, size float64) (geom.Box, error) {
	if size <= 0 {
		return geom.Box{}, errors.New(errors.ErrCodeInvalidBox, "font size must be positive, got %v", size)
	}
	cw := e.CharWidth
	if cw == 0 {
		cw = DefaultCharWidth
	}
	n := utf8.RuneCountInString(label)
	return geom.Box{W: float64(n) * size * cw, H: size}, nil
}

// Request is one label to measure at a given size.
type Request struct {
	Label string
	Size  float64
}

// MeasureAll measures every request with m. A failed or invalid measurement
// is replaced by FallbackBox and logged at warn level; it never fails the
// whole batch. A nil logger discards.
func MeasureAll(m Measurer, reqs []Request, logger *log.Logger) []geom.Box {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	out := make([]geom.Box, len(reqs))
	fallbacks := 0
	for i, r := range reqs {
		b, err := m.Measure(r.Label, r.Size)
		if err == nil {
			err = b.Validate()
		}
		if err != nil {
			logger.Warn("measurement failed, using fallback box", "index", i, "label", r.Label, "error", err)
			b = FallbackBox
			fallbacks++
		}
		out[i] = geom.Box{W: b.W, H: b.H}
	}
	if fallbacks > 0 {
		logger.Debug("measured words", "count", len(reqs), "fallbacks", fallbacks)
	}
	return out
}

// Describe returns a short human readable name for m, used in logs.
func Describe(m Measurer) string {
	switch m.(type) {
	case Fallback:
		return KindFallback
	case Estimate:
		return KindEstimate
	case *Font:
		return KindFont
	}
	return fmt.Sprintf("%T", m)
}
