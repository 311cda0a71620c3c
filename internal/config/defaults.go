package config

const (
	defaultCacheCapacity           = 10000
	defaultCacheShards             = 256
	defaultCacheEvictionPercentage = 10

	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 28
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"log.level":        "info",
		"log.format":       "json",
		"log.file":         "",
		"log.max_size_mb":  defaultLogMaxSizeMB,
		"log.max_backups":  defaultLogMaxBackups,
		"log.max_age_days": defaultLogMaxAgeDays,

		"cache.timed.capacity":            defaultCacheCapacity,
		"cache.timed.num_shards":          defaultCacheShards,
		"cache.timed.ttl":                 "5m",
		"cache.timed.eviction_percentage": defaultCacheEvictionPercentage,
		"cache.timed.eviction_interval":   "0s",

		"database.driver": "sqlite3",
		"database.dsn":    "file:fitter?mode=memory&cache=shared",
		"database.seed":   true,
	}
}
