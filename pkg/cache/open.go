package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend string      `toml:"backend" json:"backend"`
	Dir     string      `toml:"dir" json:"dir,omitempty"`
	Redis   RedisConfig `toml:"-" json:"-"`
}

// Open returns the cache described by cfg. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case BackendFile, "":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMemory:
		return NewMemoryCache(), nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("invalid cache backend: %q (must be one of: file, memory, redis, none)", cfg.Backend)
}
