// Package sink renders a [scene.Scene] into output formats.
//
// [RenderSVG] produces a standalone SVG document whose viewBox is the scene
// viewport. Every word is one <text> element anchored at its left edge and
// vertical middle (dominant-baseline="middle"), classed by sentiment and
// carrying its index in data-index so a click handler can report it.
//
// [RenderJSON] re-serializes the scene. [ToDOT] emits a Graphviz graph with
// every word pinned at its placed position, and [RenderDOT] renders it with
// go-graphviz. [RenderPNG] and [RenderPDF] convert the SVG with rsvg-convert.
package sink
