// Package source loads ordered topic lists from the places they live.
//
// A [Source] returns topics in placement order. The file source keeps the
// order of the document; the database sources order by volume descending
// and then by label, so the largest words are placed nearest the centre.
//
// Sources are opened from a [Config], usually decoded from the [source]
// table of topiccloud.toml:
//
//	src, err := source.Open(ctx, source.Config{Kind: source.KindMongo, URI: uri, Database: "social"})
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	topics, err := src.Load(ctx)
package source

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/retry"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// connectPolicy retries database connects that fail with NETWORK_ERROR.
var connectPolicy = retry.Policy{
	Attempts:  3,
	Delay:     time.Second,
	Retryable: func(err error) bool { return errors.Is(err, errors.ErrCodeNetwork) },
}

// Source kinds.
const (
	KindFile     = "file"
	KindMongo    = "mongo"
	KindPostgres = "postgres"
)

// Default collection and table name for the database sources.
const DefaultCollection = "topics"

// Source yields an ordered list of topics.
type Source interface {
	// Load fetches the current topics. The result is validated.
	Load(ctx context.Context) ([]topic.Topic, error)

	// Name identifies the source in logs and cache keys.
	Name() string

	// Close releases connections held by the source.
	Close() error
}

// Config selects and configures a source.
type Config struct {
	Kind       string `toml:"kind" json:"kind"`
	Path       string `toml:"path" json:"path,omitempty"`
	URI        string `toml:"uri" json:"uri,omitempty"`
	Database   string `toml:"database" json:"database,omitempty"`
	Collection string `toml:"collection" json:"collection,omitempty"`
	Table      string `toml:"table" json:"table,omitempty"`
	Limit      int    `toml:"limit" json:"limit,omitempty"`
}

// SetDefaults fills empty fields.
func (c *Config) SetDefaults() {
	if c.Kind == "" {
		c.Kind = KindFile
	}
	if c.Collection == "" {
		c.Collection = DefaultCollection
	}
	if c.Table == "" {
		c.Table = DefaultCollection
	}
}

// Validate checks the fields required by the selected kind.
func (c Config) Validate() error {
	if c.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "source limit must not be negative, got %d", c.Limit)
	}
	switch c.Kind {
	case KindFile:
		return errors.ValidatePath(c.Path)
	case KindMongo:
		if c.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "mongo source requires a uri")
		}
		if c.Database == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "mongo source requires a database")
		}
		return errors.ValidateIdentifier(c.Collection)
	case KindPostgres:
		if c.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "postgres source requires a uri")
		}
		return errors.ValidateIdentifier(c.Table)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q (valid: %v)", c.Kind, Kinds())
	}
}

// Location returns the kind-specific address used in cache keys.
// Credentials in the URI are not part of it.
func (c Config) Location() string {
	switch c.Kind {
	case KindMongo:
		return fmt.Sprintf("%s/%s?limit=%d", c.Database, c.Collection, c.Limit)
	case KindPostgres:
		return fmt.Sprintf("%s?limit=%d", c.Table, c.Limit)
	default:
		return c.Path
	}
}

// Kinds returns the supported source kinds, sorted.
func Kinds() []string {
	ks := []string{KindFile, KindMongo, KindPostgres}
	sort.Strings(ks)
	return ks
}

// Open validates cfg and connects to the selected source.
func Open(ctx context.Context, cfg Config) (Source, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		src Source
		err error
	)
	switch cfg.Kind {
	case KindMongo:
		err = retry.Do(ctx, connectPolicy, func() error {
			m, err := NewMongo(ctx, cfg)
			if err == nil {
				src = m
			}
			return err
		})
	case KindPostgres:
		err = retry.Do(ctx, connectPolicy, func() error {
			p, err := NewPostgres(ctx, cfg)
			if err == nil {
				src = p
			}
			return err
		})
	default:
		src = NewFile(cfg.Path, cfg.Limit)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

// truncate applies a non-zero limit.
func truncate(ts []topic.Topic, limit int) []topic.Topic {
	if limit > 0 && len(ts) > limit {
		return ts[:limit]
	}
	return ts
}
