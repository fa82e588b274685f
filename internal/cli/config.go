package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/topiccloud/internal/server"
	"github.com/matzehuels/topiccloud/pkg/cache"
	"github.com/matzehuels/topiccloud/pkg/layout"
	"github.com/matzehuels/topiccloud/pkg/pipeline"
	"github.com/matzehuels/topiccloud/pkg/source"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// DefaultConfigFile is read from the working directory when --config is
// not given. A missing default file is not an error.
const DefaultConfigFile = "topiccloud.toml"

// Environment variables that override secrets in the config file.
const (
	EnvRedisPassword = "TOPICCLOUD_REDIS_PASSWORD"
	EnvSourceURI     = "TOPICCLOUD_SOURCE_URI"
)

// =============================================================================
// Config - topiccloud.toml
// =============================================================================

// Config is the on-disk configuration file.
type Config struct {
	Classify topic.Classifier `toml:"classify"`
	Layout   LayoutConfig     `toml:"layout"`
	Render   RenderConfig     `toml:"render"`
	Source   source.Config    `toml:"source"`
	Cache    CacheConfig      `toml:"cache"`
	Server   server.Config    `toml:"server"`
}

// LayoutConfig is the [layout] section.
type LayoutConfig struct {
	Step     float64 `toml:"spiral_step"`
	MaxSteps int     `toml:"max_steps"`
	Metrics  string  `toml:"metrics"`
}

// RenderConfig is the [render] section.
type RenderConfig struct {
	Formats   []string `toml:"formats"`
	Margin    float64  `toml:"margin"`
	EmbedFont bool     `toml:"embed_font"`
	Title     string   `toml:"title"`
	Scale     float64  `toml:"scale"`
	PNGEngine string   `toml:"png_engine"`
}

// CacheConfig is the [cache] section.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	Scope         string `toml:"scope"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		Classify: topic.DefaultClassifier(),
		Layout: LayoutConfig{
			Step:    layout.DefaultStep,
			Metrics: pipeline.DefaultMetrics,
		},
		Render: RenderConfig{
			Formats: []string{pipeline.FormatSVG},
			Margin:  pipeline.DefaultMargin,
			Scale:   pipeline.DefaultScale,
		},
		Cache: CacheConfig{
			Backend:   cache.BackendFile,
			RedisAddr: "localhost:6379",
		},
	}
	cfg.Source.SetDefaults()
	cfg.Server.SetDefaults()
	return cfg
}

// LoadConfig reads path on top of DefaultConfig. When required is false a
// missing file yields the defaults. Environment overrides are applied last.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !required:
		cfg.applyEnv()
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// WriteConfig encodes cfg as TOML.
func WriteConfig(w io.Writer, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := os.Getenv(EnvSourceURI); v != "" {
		c.Source.URI = v
	}
}

// =============================================================================
// Mapping onto package options
// =============================================================================

// Options maps the file onto pipeline options. Flags are applied to the
// result by each command.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		Source:     c.Source,
		Classifier: c.Classify,
		Step:       c.Layout.Step,
		MaxSteps:   c.Layout.MaxSteps,
		Metrics:    c.Layout.Metrics,
		Formats:    append([]string(nil), c.Render.Formats...),
		Margin:     c.Render.Margin,
		EmbedFont:  c.Render.EmbedFont,
		Title:      c.Render.Title,
		Scale:      c.Render.Scale,
		PNGEngine:  c.Render.PNGEngine,
	}
}

// CacheOptions returns the cache configuration, using dir when the file
// names none.
func (c *Config) CacheOptions(dir string) cache.Config {
	cc := cache.Config{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.RedisPrefix,
		},
	}
	if cc.Dir == "" {
		cc.Dir = dir
	}
	return cc
}
