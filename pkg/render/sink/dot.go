package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/scene"
)

// pointsPerInch converts user units (points at 72 DPI) to Graphviz inches.
const pointsPerInch = 72.0

var classColor = map[string]string{
	"positive": ColorPositive,
	"neutral":  ColorNeutral,
	"negative": ColorNegative,
}

// ToDOT converts a scene to an undirected Graphviz graph with one
// plaintext node per word, pinned at the centre of its placed box.
// Graphviz's y axis points up, so y coordinates are negated.
func ToDOT(s scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph cloud {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  node [shape=plaintext, fixedsize=true, margin=0, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, w := range s.Words {
		cx, cy := w.Box.Center()
		color := classColor[w.Class]
		if color == "" {
			color = ColorNeutral
		}
		fmt.Fprintf(&buf, "  w%d [label=%q, pos=\"%.2f,%.2f!\", width=%.4f, height=%.4f, fontsize=%g, fontcolor=%q];\n",
			w.Index, w.Label, cx, -cy, w.Box.W/pointsPerInch, w.Box.H/pointsPerInch, w.FontSize, color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// DOTFormat selects the Graphviz output format.
type DOTFormat string

const (
	DOTSVG DOTFormat = "svg"
	DOTPNG DOTFormat = "png"
)

// RenderDOT renders a DOT graph with the neato engine, which honours the
// pinned node positions produced by ToDOT.
func RenderDOT(ctx context.Context, dot string, format DOTFormat) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var f graphviz.Format
	switch format {
	case DOTSVG, "":
		f = graphviz.SVG
	case DOTPNG:
		f = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported graphviz format %q", format)
	}

	var buf bytes.Buffer
	if err := gv.SetLayout(graphviz.NEATO).Render(ctx, g, f, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return buf.Bytes(), nil
}
