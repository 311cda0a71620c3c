package cache

import (
	"time"

	"github.com/getfitter/go-service-core/internal/cacheinfra"
)

// Config exposes the timed backend options for consumers of the cache package.
type Config struct {
	Capacity           int           `koanf:"capacity"`
	NumShards          int           `koanf:"num_shards"`
	TTL                time.Duration `koanf:"ttl"`
	EvictionPercentage int           `koanf:"eviction_percentage"`
	EvictionInterval   time.Duration `koanf:"eviction_interval"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewTimedBackend constructs the sturdyc-backed store whose entries expire
// after TTL. Mutable tables use it.
func NewTimedBackend(cfg Config) (Backend, error) {
	backend, err := cacheinfra.NewSturdycBackend(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return backend, nil
}

// NewEternalBackend constructs a store whose entries never expire. Pure
// reference tables use it; entries leave only through Delete or
// DeleteByPrefix.
func NewEternalBackend() Backend {
	return cacheinfra.NewEternalBackend()
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
