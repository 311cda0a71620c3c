// Package config loads service configuration in layers:
// defaults -> base.yaml -> {profile}.yaml -> APP_ environment variables.
package config

import (
	"github.com/getfitter/go-service-core/cache"
	"github.com/getfitter/go-service-core/internal/logging"
	"github.com/getfitter/go-service-core/internal/storage"
)

// Config holds all configuration for the service.
type Config struct {
	Log      logging.Config `koanf:"log"`
	Cache    CacheConfig    `koanf:"cache"`
	Database storage.Config `koanf:"database"`
}

// CacheConfig holds cache backend settings. The eternal backend has none.
type CacheConfig struct {
	Timed cache.Config `koanf:"timed"`
}
