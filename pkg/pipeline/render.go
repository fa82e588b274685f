package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/topiccloud/pkg/measure"
	"github.com/matzehuels/topiccloud/pkg/observability"
	"github.com/matzehuels/topiccloud/pkg/render"
	"github.com/matzehuels/topiccloud/pkg/render/sink"
	"github.com/matzehuels/topiccloud/pkg/scene"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, sc scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, err := renderFormats(ctx, sc, opts)

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, sc scene.Scene, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(sc, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(sc, svgOpts...)
		case FormatPNG:
			data, err = renderPNG(ctx, sc, svgOpts, opts)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, sc, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(sc)
		case FormatDOT:
			data = []byte(sink.ToDOT(sc))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderPNG rasterizes through rsvg-convert, or through Graphviz when
// requested or when rsvg-convert is not installed.
func renderPNG(ctx context.Context, sc scene.Scene, svgOpts []sink.SVGOption, opts Options) ([]byte, error) {
	engine := opts.PNGEngine
	if engine == PNGEngineAuto {
		engine = PNGEngineRSVG
		if !render.Available() {
			opts.Logger.Debug("rsvg-convert not found, rendering png with graphviz")
			engine = PNGEngineGraphviz
		}
	}
	if engine == PNGEngineGraphviz {
		return sink.RenderDOT(ctx, sink.ToDOT(sc), sink.DOTPNG)
	}
	return sink.RenderPNG(ctx, sc, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
}

// buildSVGOptions builds SVG rendering options. Scenes measured with font
// metrics always embed that font so the drawn words match the placed boxes.
func buildSVGOptions(sc scene.Scene, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithMargin(opts.Margin)}
	if opts.EmbedFont || sc.Metrics == measure.KindFont {
		svgOpts = append(svgOpts, sink.WithEmbeddedFont())
	}
	if opts.ClickURL != "" {
		svgOpts = append(svgOpts, sink.WithClickURL(opts.ClickURL))
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts
}

// RenderFromSceneData renders output from serialized scene data.
// This is useful when the scene was computed elsewhere, e.g. by `topiccloud layout`.
func RenderFromSceneData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	sc, err := scene.UnmarshalScene(data)
	if err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return Render(ctx, sc, opts)
}
