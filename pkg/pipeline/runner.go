package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topiccloud/pkg/cache"
	"github.com/matzehuels/topiccloud/pkg/observability"
	"github.com/matzehuels/topiccloud/pkg/scene"
	"github.com/matzehuels/topiccloud/pkg/source"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Load
	loadStart := time.Now()
	ts, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	loadTime := time.Since(loadStart)

	r.Logger.Info("loaded topics",
		"source", opts.Source.Kind,
		"count", len(ts),
		"duration", loadTime)

	result, err := r.ExecuteTopics(ctx, ts, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	result.CacheInfo.LoadHit = loadHit
	return result, nil
}

// ExecuteTopics runs the layout and render stages on topics that are
// already loaded.
func (r *Runner) ExecuteTopics(ctx context.Context, ts []topic.Topic, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Topics:    ts,
		Artifacts: make(map[string][]byte),
	}
	if h, err := cache.HashJSON(ts); err == nil {
		result.TopicsHash = h
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	sc, sceneHit, err := r.GenerateSceneWithCacheInfo(ctx, ts, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = sc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.WordCount = sc.Len()
	result.Stats.SpiralSteps = spiralSteps(sc)
	result.CacheInfo.SceneHit = sceneHit

	r.Logger.Info("placed words",
		"count", sc.Len(),
		"steps", result.Stats.SpiralSteps,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo opens the configured source, loads its topics and
// returns cache hit info. Database sources are cached for cache.TTLSource;
// files are always re-read.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) ([]topic.Topic, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}

	cacheable := opts.Source.Kind != source.KindFile
	cacheKey := r.Keyer.SourceKey(opts.Source.Kind, opts.Source.Location())

	// Try cache first (unless refresh requested)
	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if ts, err := topic.Parse(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "source")
				return ts, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "source")
	}

	src, err := source.Open(ctx, opts.Source)
	if err != nil {
		return nil, false, err
	}
	defer src.Close()

	ts, err := r.LoadFrom(ctx, src)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if cacheable {
		var buf bytes.Buffer
		if err := topic.Write(&buf, ts); err == nil {
			r.set(ctx, "source", cacheKey, buf.Bytes(), cache.TTLSource)
		}
	}

	return ts, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) ([]topic.Topic, error) {
	ts, _, err := r.LoadWithCacheInfo(ctx, opts)
	return ts, err
}

// LoadFrom loads topics from an already open source without caching.
func (r *Runner) LoadFrom(ctx context.Context, src source.Source) ([]topic.Topic, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, src.Name())

	ts, err := src.Load(ctx)

	observability.Pipeline().OnLoadComplete(ctx, src.Name(), len(ts), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	return ts, nil
}

// GenerateSceneWithCacheInfo computes a scene with caching and returns cache hit info.
// The provisional callback only runs on a cache miss.
func (r *Runner) GenerateSceneWithCacheInfo(ctx context.Context, ts []topic.Topic, opts Options) (scene.Scene, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return scene.Scene{}, false, err
	}

	// Compute cache key
	topicsHash, err := cache.HashJSON(ts)
	if err != nil {
		return scene.Scene{}, false, fmt.Errorf("hash topics for cache key: %w", err)
	}
	cacheKey := r.Keyer.SceneKey(topicsHash, opts.SceneKeyOpts())

	// Try cache first
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := scene.UnmarshalScene(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "scene")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	sc, err := GenerateScene(ctx, ts, opts)
	if err != nil {
		return scene.Scene{}, false, err
	}

	// Cache the result
	if data, err := scene.MarshalScene(sc); err == nil {
		r.set(ctx, "scene", cacheKey, data, cache.TTLScene)
	}

	return sc, false, nil // Cache miss
}

// GenerateScene is a convenience wrapper that calls GenerateSceneWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateScene(ctx context.Context, ts []topic.Topic, opts Options) (scene.Scene, error) {
	sc, _, err := r.GenerateSceneWithCacheInfo(ctx, ts, opts)
	return sc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sc scene.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from scene data
	sceneData, err := json.Marshal(sc)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	rendered, err := Render(ctx, sc, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, "artifact", cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, sc scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, sc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// set writes to the cache. Cache failures are logged, never returned.
func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
// It runs before validation, which would otherwise install a discarding logger.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
