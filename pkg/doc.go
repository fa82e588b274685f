// Package pkg provides the core libraries for topiccloud word cloud layout.
//
// # Overview
//
// topiccloud turns a ranked list of trending topics into a word cloud. The
// most talked-about topic sits at the centre, and later topics spiral outward
// without overlapping. Each word's size reflects its volume and its colour
// reflects its sentiment score.
//
// # Architecture
//
// The typical data flow:
//
//	File / MongoDB / PostgreSQL
//	         ↓
//	    [source] package (ordered topics)
//	         ↓
//	    [topic] package (size bucket + sentiment category)
//	         ↓
//	    [measure] package (rendered text boxes)
//	         ↓
//	    [layout] package (spiral placement)
//	         ↓
//	    [scene] package (placed words)
//	         ↓
//	    [render/sink] package → SVG/PNG/PDF/JSON/DOT
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  source.Config{Kind: source.KindFile, Path: "topics.json"},
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("cloud.svg", result.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// [topic] - Topic records, the JSON document format and the classifier that
// maps volume to a font size and sentiment score to a category.
//
// [geom] - Axis-aligned boxes and the closed intersection test used for
// collision checks.
//
// [layout] - The spiral placement engine, the measurement pass state machine
// and the generation-tracked target that discards superseded layouts.
//
// [fonts] and [measure] - Embedded font faces and text measurement, with a
// fixed fallback box when measurement fails.
//
// [scene] - The placed, serialisable result of one layout.
//
// [render] and [render/sink] - Scene output as SVG, JSON and DOT, with PNG
// and PDF conversion.
//
// [selection] - Click handling: the details panel and the fan-out of
// selection events to NATS subscribers.
//
// [pipeline] - The load → layout → render pipeline shared by the CLI and the
// HTTP server, with content-addressed caching through [cache].
//
// [source] - File, MongoDB and PostgreSQL topic sources.
//
// [errors], [retry], [observability] and [buildinfo] - Coded errors,
// connection retry, pipeline hooks and version information.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include database and broker tests
//
// [topic]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/topic
// [geom]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/geom
// [layout]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/layout
// [fonts]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/fonts
// [measure]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/measure
// [scene]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/render/sink
// [selection]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/selection
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/cache
// [source]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/source
// [errors]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/errors
// [retry]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/retry
// [observability]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/topiccloud/pkg/buildinfo
package pkg
