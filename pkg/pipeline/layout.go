package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/matzehuels/topiccloud/pkg/layout"
	"github.com/matzehuels/topiccloud/pkg/measure"
	"github.com/matzehuels/topiccloud/pkg/observability"
	"github.com/matzehuels/topiccloud/pkg/scene"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// =============================================================================
// Scene Generation
// =============================================================================

// GenerateScene classifies, measures and places ts in order.
//
// The layout runs as one pass through Unmeasured → Measured → Placed. When
// opts.OnProvisional is set, the unmeasured fallback boxes are placed first
// and the resulting scene is handed to the callback, so a caller can show
// something before measurement finishes. Words whose measurement fails keep
// the fallback box; only invalid configuration and an exhausted step budget
// are errors.
func GenerateScene(ctx context.Context, ts []topic.Topic, opts Options) (scene.Scene, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return scene.Scene{}, err
	}
	if err := topic.ValidateAll(ts); err != nil {
		return scene.Scene{}, err
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(ts))

	sc, err := generateScene(ctx, ts, opts)

	observability.Pipeline().OnLayoutComplete(ctx, len(ts), spiralSteps(sc), time.Since(start), err)
	return sc, err
}

func generateScene(ctx context.Context, ts []topic.Topic, opts Options) (scene.Scene, error) {
	classes := opts.Classifier.ClassifyAll(ts)
	engine := layout.New(layout.WithStep(opts.Step), layout.WithMaxSteps(opts.MaxSteps))
	pass := layout.NewPass(len(ts), measure.FallbackBox)

	// Stage 1: provisional placement with fallback boxes
	if opts.OnProvisional != nil {
		ps, err := pass.Provisional(engine)
		if err != nil {
			return scene.Scene{}, err
		}
		provisional, err := buildScene(ts, classes, ps, opts, measure.KindFallback)
		if err != nil {
			return scene.Scene{}, err
		}
		provisional.Provisional = true
		opts.Logger.Debug("provisional layout", "words", len(ts), "viewport", provisional.Viewport)
		opts.OnProvisional(provisional)
	}
	if err := ctx.Err(); err != nil {
		return scene.Scene{}, err
	}

	// Stage 2: measure, then place the measured boxes
	m, closeMeasurer, err := opts.measurer()
	if err != nil {
		return scene.Scene{}, err
	}
	defer closeMeasurer()

	reqs := make([]measure.Request, len(ts))
	for i, t := range ts {
		reqs[i] = measure.Request{Label: t.Label, Size: classes[i].Size}
	}
	if err := pass.Measure(measure.MeasureAll(m, reqs, opts.Logger)); err != nil {
		return scene.Scene{}, err
	}
	if err := ctx.Err(); err != nil {
		return scene.Scene{}, err
	}

	ps, err := pass.Place(engine)
	if err != nil {
		return scene.Scene{}, err
	}
	return buildScene(ts, classes, ps, opts, measure.Describe(m))
}

// measurer returns the configured measurer and a func releasing it.
func (o *Options) measurer() (measure.Measurer, func(), error) {
	if o.Measurer != nil {
		return o.Measurer, func() {}, nil
	}
	m, err := measure.New(o.Metrics)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := m.(io.Closer); ok {
		return m, func() { _ = c.Close() }, nil
	}
	return m, func() {}, nil
}

// buildScene assembles the scene and echoes the configuration that produced it.
func buildScene(ts []topic.Topic, classes []topic.Class, ps []layout.Placement, opts Options, metrics string) (scene.Scene, error) {
	sc, err := scene.Build(ts, classes, ps)
	if err != nil {
		return scene.Scene{}, err
	}
	sc.Step = opts.Step
	sc.Metrics = metrics
	sc.Classifier = opts.Classifier
	return sc, nil
}

// spiralSteps sums the spiral candidates tried across all words.
func spiralSteps(sc scene.Scene) int {
	n := 0
	for _, w := range sc.Words {
		n += w.Steps
	}
	return n
}
