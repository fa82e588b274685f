// Package pipeline provides the word cloud pipeline shared by the CLI and
// the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: fetch the ordered topics from a file or database source
//  2. Layout: classify, measure and place every topic on the spiral
//  3. Render: produce artifacts (SVG, PNG, PDF, JSON, DOT) from the scene
//
// Each stage can be run on its own or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{
//	    Source:  source.Config{Kind: source.KindFile, Path: "topics.json"},
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	topics, err := runner.Load(ctx, opts)
//	sc, err := runner.GenerateScene(ctx, topics, opts)
//	artifacts, err := runner.Render(ctx, sc, opts)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topiccloud/pkg/cache"
	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/layout"
	"github.com/matzehuels/topiccloud/pkg/measure"
	"github.com/matzehuels/topiccloud/pkg/scene"
	"github.com/matzehuels/topiccloud/pkg/source"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMetrics is the measurer used when none is configured.
	DefaultMetrics = measure.KindFont

	// DefaultMargin is the padding added around the viewport in SVG output.
	DefaultMargin = 4.0

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// PNG engines. The empty engine picks rsvg-convert when it is installed
// and Graphviz otherwise.
const (
	PNGEngineAuto     = ""
	PNGEngineRSVG     = "rsvg"
	PNGEngineGraphviz = "graphviz"
)

// ValidPNGEngines is the set of supported PNG engines.
var ValidPNGEngines = map[string]bool{
	PNGEngineAuto:     true,
	PNGEngineRSVG:     true,
	PNGEngineGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the word cloud pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source  source.Config `json:"source"`
	Refresh bool          `json:"refresh,omitempty"`

	// Layout options
	Classifier topic.Classifier `json:"classifier"`
	Step       float64          `json:"spiral_step,omitempty"`
	MaxSteps   int              `json:"max_steps,omitempty"`
	Metrics    string           `json:"metrics,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Margin    float64  `json:"margin,omitempty"`
	EmbedFont bool     `json:"embed_font,omitempty"` // forced on for font-measured scenes
	ClickURL  string   `json:"click_url,omitempty"`
	Title     string   `json:"title,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	PNGEngine string   `json:"png_engine,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Measurer overrides Metrics when set.
	Measurer measure.Measurer `json:"-"`

	// OnProvisional, when set, receives the stage-one scene placed with
	// fallback boxes before measurement starts.
	OnProvisional func(scene.Scene) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Topics are the loaded topics in placement order.
	Topics []topic.Topic

	// TopicsHash is the content hash of the topics.
	TopicsHash string

	// Scene is the placed word cloud.
	Scene scene.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	WordCount   int
	SpiralSteps int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether topics came from cache
	SceneHit  bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePNGEngine checks that a PNG engine is valid.
func ValidatePNGEngine(engine string) error {
	if !ValidPNGEngines[engine] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid png engine: %q (must be one of: rsvg, graphviz)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the source configuration.
func (o *Options) ValidateForLoad() error {
	o.Source.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.Source.Validate()
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	o.Classifier.SetDefaults()
	if o.Step == 0 {
		o.Step = layout.DefaultStep
	}
	if o.Metrics == "" && o.Measurer == nil {
		o.Metrics = DefaultMetrics
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Classifier.Validate(); err != nil {
		return err
	}
	if o.Step < 0 || math.IsNaN(o.Step) || math.IsInf(o.Step, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "spiral_step must be positive, got %v", o.Step)
	}
	if o.MaxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_steps must not be negative, got %d", o.MaxSteps)
	}
	if o.Measurer == nil && !measure.ValidKinds[o.Metrics] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid metrics: %q (must be one of: fallback, estimate, font)", o.Metrics)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidatePNGEngine(o.PNGEngine); err != nil {
		return err
	}
	if o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative, got %v", o.Margin)
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %v", o.Scale)
	}
	if o.ClickURL != "" {
		if err := errors.ValidateURL(o.ClickURL); err != nil {
			return err
		}
	}
	return nil
}

// MetricsName returns the name of the measurer the options select.
func (o *Options) MetricsName() string {
	if o.Measurer != nil {
		return measure.Describe(o.Measurer)
	}
	return o.Metrics
}

// SceneKeyOpts returns cache key options for scene computation.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		TextSizeCategories:     o.Classifier.TextSizeCategories,
		TextSizes:              o.Classifier.TextSizes,
		PositiveSentimentBound: o.Classifier.PositiveSentimentBound,
		NegativeSentimentBound: o.Classifier.NegativeSentimentBound,
		Step:                   o.Step,
		MaxSteps:               o.MaxSteps,
		Metrics:                o.MetricsName(),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:    format,
		Margin:    o.Margin,
		EmbedFont: o.EmbedFont,
		ClickURL:  o.ClickURL,
		Title:     o.Title,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
		k.PNGEngine = o.PNGEngine
	}
	return k
}
