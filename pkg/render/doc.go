// Package render turns computed scenes into output artifacts.
//
// The [sink] subpackage renders a scene as SVG, JSON or Graphviz DOT.
// This package holds the format conversion shared by every sink: [ToPDF]
// and [ToPNG] convert any SVG using the external rsvg-convert tool.
//
//	svg := sink.RenderSVG(s, sink.WithMargin(4))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// Conversion fails with an UNSUPPORTED error when rsvg-convert is not
// installed; callers can check [Available] first.
package render
