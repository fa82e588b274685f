// Package cache stores computed scenes and rendered artifacts.
//
// A [Cache] is a byte-oriented key/value store with optional TTL. Keys are
// built by a [Keyer] from content hashes and the options that influence the
// cached value, so two runs share an entry only when they would produce the
// same output.
//
// Implementations:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [MemoryCache]: in-process map, used by the server and tests
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry type.
const (
	TTLSource   = 10 * time.Minute
	TTLScene    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value for key. hit is false on a miss; err is reserved
	// for backend failures.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SceneKeyOpts are the options that change a computed scene.
type SceneKeyOpts struct {
	TextSizeCategories     []float64 `json:"c"`
	TextSizes              []float64 `json:"s"`
	PositiveSentimentBound float64   `json:"p"`
	NegativeSentimentBound float64   `json:"n"`
	Step                   float64   `json:"t"`
	MaxSteps               int       `json:"m"`
	Metrics                string    `json:"x"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"f"`
	Margin    float64 `json:"m"`
	EmbedFont bool    `json:"e"`
	ClickURL  string  `json:"u"`
	Title     string  `json:"t"`
	Scale     float64 `json:"s"`
	PNGEngine string  `json:"g"`
}

// Keyer builds cache keys.
type Keyer interface {
	// SourceKey identifies a topic snapshot loaded from a source.
	SourceKey(kind, location string) string

	// SceneKey identifies a scene computed from the topics with the given hash.
	SceneKey(topicsHash string, opts SceneKeyOpts) string

	// ArtifactKey identifies an artifact rendered from the scene with the given hash.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form kind:sha256(...).
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SourceKey implements Keyer.
func (DefaultKeyer) SourceKey(kind, location string) string {
	return "source:" + kind + ":" + location
}

// SceneKey implements Keyer.
func (DefaultKeyer) SceneKey(topicsHash string, opts SceneKeyOpts) string {
	return hashKey("scene", topicsHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
