package config

import "time"

// TestConfig returns a config sized for fast tests. Callers are expected
// to point Database.Path and Search.IndexPath into a temp directory.
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.Database.Path = ""
	cfg.Search.IndexPath = ""
	cfg.Search.Engine = "simple"
	cfg.Feed.HTTPTimeout = 5 * time.Second
	cfg.Cache.PageSize = 5
	cfg.Cache.PerSourceLimit = 3
	cfg.Sync.Debounce = 10 * time.Millisecond
	cfg.Sync.Interval = time.Minute
	cfg.Log.Path = ""
	return cfg
}
