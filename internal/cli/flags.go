package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topiccloud/pkg/pipeline"
)

// Flags are registered with zero defaults and only applied when set, so
// values from the config file survive unless overridden on the command line.

// layoutFlags are shared by every command that places words.
type layoutFlags struct {
	step     float64
	maxSteps int
	metrics  string
	limit    int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.step, "step", 0, "spiral step in radians (default 0.05)")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "spiral steps per word before giving up (0: unbounded)")
	cmd.Flags().StringVar(&f.metrics, "metrics", "", "text metrics: font (default), estimate, fallback")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "load at most this many topics")
	_ = cmd.RegisterFlagCompletionFunc("metrics", completeMetrics)
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("step") {
		opts.Step = f.step
	}
	if fs.Changed("max-steps") {
		opts.MaxSteps = f.maxSteps
	}
	if fs.Changed("metrics") {
		opts.Metrics = f.metrics
	}
	if fs.Changed("limit") {
		opts.Source.Limit = f.limit
	}
}

// renderFlags are shared by every command that writes artifacts.
type renderFlags struct {
	formats   string
	margin    float64
	embedFont bool
	title     string
	scale     float64
	pngEngine string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().Float64Var(&f.margin, "margin", 0, "padding around the cloud (default 4)")
	cmd.Flags().BoolVar(&f.embedFont, "embed-font", false, "embed the font in SVG output (always on for font metrics)")
	cmd.Flags().StringVar(&f.title, "title", "", "SVG title")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().StringVar(&f.pngEngine, "png-engine", "", "PNG engine: rsvg, graphviz (default: rsvg with graphviz fallback)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if fs.Changed("margin") {
		opts.Margin = f.margin
	}
	if fs.Changed("embed-font") {
		opts.EmbedFont = f.embedFont
	}
	if fs.Changed("title") {
		opts.Title = f.title
	}
	if fs.Changed("scale") {
		opts.Scale = f.scale
	}
	if fs.Changed("png-engine") {
		opts.PNGEngine = f.pngEngine
	}
	opts.SetRenderDefaults()
	return pipeline.ValidateFormats(opts.Formats)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k, ok := range m {
		if ok && k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
