package verger

import "time"

// Config holds configuration for the Verger engine.
type Config struct {
	// CacheTTL is the time-to-live for cached access resolutions.
	// Zero means no caching even when a cache is configured.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// RecordDecisions enables writing an audit entry for every
	// permission and page query. Defaults to false.
	RecordDecisions bool `json:"record_decisions,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL: 5 * time.Minute,
	}
}
