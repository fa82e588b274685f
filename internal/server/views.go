package server

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/matzehuels/topiccloud/pkg/selection"
)

const pageCSS = `
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; margin: 2rem; color: #212121; }
  h1 { font-weight: 500; }
  .columns { display: flex; gap: 2rem; align-items: flex-start; }
  .cloud { flex: 2; }
  .cloud svg { width: 100%; height: auto; }
  .panel { flex: 1; min-width: 16rem; }
  .panel h2 { font-size: 1.1rem; font-weight: 500; margin: 0.4rem 0; }
  .panel .positive { color: #2e7d32; }
  .panel .neutral { color: #757575; }
  .panel .negative { color: #c62828; }`

// PageData is the content of the index page.
type PageData struct {
	Title   string
	Cloud   []byte // inline SVG
	Details selection.Details
	Version string
}

// Page renders the full page: the cloud on the left and the details panel
// on the right.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(data.Title)
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="generator" content="topiccloud %s">
<title>%s</title>
<style>%s
</style>
</head>
<body>
<h1>%s</h1>
<div class="columns">
<div class="cloud">
`, templ.EscapeString(data.Version), title, pageCSS, title); err != nil {
			return err
		}
		if _, err := w.Write(data.Cloud); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</div>\n<div class=\"panel\" id=\"topic-panel\">\n"); err != nil {
			return err
		}
		if err := Panel(data.Details).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</div>\n</div>\n</body>\n</html>\n")
		return err
	})
}

// Panel renders the details of the selected topic, or the empty state.
func Panel(d selection.Details) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !d.Selected {
			_, err := fmt.Fprintf(w, "<div>%s</div>\n", templ.EscapeString(selection.NoSelection))
			return err
		}
		t := d.Topic
		_, err := fmt.Fprintf(w, `<div class="topic-info" data-index="%d">
<h2>Information on topic: %s</h2>
<h2>Total Mentions: %g</h2>
<h2>Positive Mentions: <span class="positive">%d</span></h2>
<h2>Neutral Mentions: <span class="neutral">%d</span></h2>
<h2>Negative Mentions: <span class="negative">%d</span></h2>
</div>
`, d.Index, templ.EscapeString(t.Label), t.Volume, t.Sentiment.Positive, t.Sentiment.Neutral, t.Sentiment.Negative)
		return err
	})
}
