package sink

import (
	"context"

	"github.com/matzehuels/topiccloud/pkg/render"
	"github.com/matzehuels/topiccloud/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG renders the scene as PNG via SVG conversion.
func RenderPNG(ctx context.Context, s scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	// rsvg-convert cannot fetch fonts, so embed the measured one.
	svg := RenderSVG(s, append([]SVGOption{WithEmbeddedFont()}, r.svgOpts...)...)
	return render.ToPNG(ctx, svg, r.scale)
}

// RenderPDF renders the scene as PDF via SVG conversion.
func RenderPDF(ctx context.Context, s scene.Scene, opts ...SVGOption) ([]byte, error) {
	svg := RenderSVG(s, append([]SVGOption{WithEmbeddedFont()}, opts...)...)
	return render.ToPDF(ctx, svg)
}
