package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else {
		if opener != "open" {
			t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Database.Timeout != 1*time.Second {
		t.Errorf("Database.Timeout = %v, want 1s", cfg.Database.Timeout)
	}
	if !strings.Contains(cfg.Database.Path, "riffle") {
		t.Errorf("Database.Path = %s, want a riffle data path", cfg.Database.Path)
	}

	if cfg.Feed.HTTPTimeout != 30*time.Second {
		t.Errorf("Feed.HTTPTimeout = %v, want 30s", cfg.Feed.HTTPTimeout)
	}

	if cfg.Cache.PageSize != 20 {
		t.Errorf("Cache.PageSize = %d, want 20", cfg.Cache.PageSize)
	}
	if cfg.Cache.PerSourceLimit != 10 {
		t.Errorf("Cache.PerSourceLimit = %d, want 10", cfg.Cache.PerSourceLimit)
	}

	if cfg.Sync.Debounce != 500*time.Millisecond {
		t.Errorf("Sync.Debounce = %v, want 500ms", cfg.Sync.Debounce)
	}
	if cfg.Sync.Interval != 10*time.Minute {
		t.Errorf("Sync.Interval = %v, want 10m", cfg.Sync.Interval)
	}
	if cfg.Sync.MaxConcurrent != 3 {
		t.Errorf("Sync.MaxConcurrent = %d, want 3", cfg.Sync.MaxConcurrent)
	}

	if cfg.Search.Engine != "bleve" {
		t.Errorf("Search.Engine = %s, want 'bleve'", cfg.Search.Engine)
	}
	if !strings.HasSuffix(cfg.Search.IndexPath, "index.bleve") {
		t.Errorf("Search.IndexPath = %s, want an index.bleve path", cfg.Search.IndexPath)
	}

	if !cfg.Tabs.ShowAggregate {
		t.Error("Tabs.ShowAggregate should default to true")
	}
	if cfg.Tabs.AggregateTitle != "All" {
		t.Errorf("Tabs.AggregateTitle = %s, want 'All'", cfg.Tabs.AggregateTitle)
	}

	if cfg.UI.Colors.Primary == "" {
		t.Error("UI.Colors.Primary should not be empty")
	}
	if cfg.UI.Opener == "" {
		t.Error("UI.Opener should not be empty")
	}
	if cfg.UI.Reader.MaxWidth <= cfg.UI.Reader.MinWidth {
		t.Errorf("UI.Reader width bounds inverted: max %d, min %d", cfg.UI.Reader.MaxWidth, cfg.UI.Reader.MinWidth)
	}

	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("Keys.Bindings.Quit = %s, want 'q'", cfg.Keys.Bindings.Quit)
	}
	if cfg.Keys.Bindings.NextTab != "l" || cfg.Keys.Bindings.PrevTab != "h" {
		t.Errorf("tab keys = %s/%s, want l/h", cfg.Keys.Bindings.NextTab, cfg.Keys.Bindings.PrevTab)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, want 'info'", cfg.Log.Level)
	}
}

func TestLoadWithCustomConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
[database]
path = "/custom/riffle.db"
timeout = "10s"

[cache]
page_size = 7

[sync]
debounce = "250ms"

[search]
engine = "simple"

[tabs]
show_aggregate = false
`
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/custom/riffle.db" {
		t.Errorf("Database.Path = %s, want '/custom/riffle.db'", cfg.Database.Path)
	}
	if cfg.Database.Timeout != 10*time.Second {
		t.Errorf("Database.Timeout = %v, want 10s", cfg.Database.Timeout)
	}
	if cfg.Cache.PageSize != 7 {
		t.Errorf("Cache.PageSize = %d, want 7", cfg.Cache.PageSize)
	}
	if cfg.Sync.Debounce != 250*time.Millisecond {
		t.Errorf("Sync.Debounce = %v, want 250ms", cfg.Sync.Debounce)
	}
	if cfg.Search.Engine != "simple" {
		t.Errorf("Search.Engine = %s, want 'simple'", cfg.Search.Engine)
	}
	if cfg.Tabs.ShowAggregate {
		t.Error("Tabs.ShowAggregate should be false from file")
	}

	// Values the file does not mention keep their defaults.
	if cfg.Cache.PerSourceLimit != 10 {
		t.Errorf("Cache.PerSourceLimit = %d, want default 10", cfg.Cache.PerSourceLimit)
	}
	if cfg.Sync.Interval != 10*time.Minute {
		t.Errorf("Sync.Interval = %v, want default 10m", cfg.Sync.Interval)
	}
	if cfg.Keys.Bindings.Search != "/" {
		t.Errorf("Keys.Bindings.Search = %s, want default '/'", cfg.Keys.Bindings.Search)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() with a missing explicit path should fail")
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.Database.Path = "/test/riffle.db"
	cfg.Cache.PageSize = 9
	cfg.Sync.Interval = 20 * time.Minute
	cfg.Search.Engine = "simple"
	cfg.Keys.Bindings.Quit = "x"

	savePath := filepath.Join(tmpDir, "saved-config.toml")
	if saveErr := cfg.Save(savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	if _, statErr := os.Stat(savePath); os.IsNotExist(statErr) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Database.Path != cfg.Database.Path {
		t.Errorf("Loaded Database.Path = %s, want %s", loaded.Database.Path, cfg.Database.Path)
	}
	if loaded.Cache.PageSize != 9 {
		t.Errorf("Loaded Cache.PageSize = %d, want 9", loaded.Cache.PageSize)
	}
	if loaded.Sync.Interval != 20*time.Minute {
		t.Errorf("Loaded Sync.Interval = %v, want 20m", loaded.Sync.Interval)
	}
	if loaded.Search.Engine != "simple" {
		t.Errorf("Loaded Search.Engine = %s, want 'simple'", loaded.Search.Engine)
	}
	if loaded.Keys.Bindings.Quit != "x" {
		t.Errorf("Loaded Keys.Bindings.Quit = %s, want 'x'", loaded.Keys.Bindings.Quit)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "generated.toml")

	written, err := GenerateDefaultConfig(configPath)
	if err != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", err)
	}
	if written != configPath {
		t.Errorf("GenerateDefaultConfig() wrote to %s, want %s", written, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}
	if cfg.Cache.PageSize != 20 {
		t.Errorf("Generated config has Cache.PageSize = %d, want 20", cfg.Cache.PageSize)
	}

	if _, err := GenerateDefaultConfig(configPath); err == nil {
		t.Error("GenerateDefaultConfig() should refuse to overwrite an existing file")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/riffle.db"); got != filepath.Join(home, "riffle.db") {
		t.Errorf("expandPath(~/riffle.db) = %s", got)
	}
	if got := expandPath(""); got != "" {
		t.Errorf("expandPath(\"\") = %s, want empty", got)
	}
	if got := expandPath("relative/path.db"); !filepath.IsAbs(got) {
		t.Errorf("expandPath(relative/path.db) = %s, want absolute", got)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}
	if cfg.Database.Path != "" {
		t.Errorf("TestConfig Database.Path = %s, want empty", cfg.Database.Path)
	}
	if cfg.Search.Engine != "simple" {
		t.Errorf("TestConfig Search.Engine = %s, want 'simple'", cfg.Search.Engine)
	}
	if cfg.Sync.Debounce >= time.Second {
		t.Errorf("TestConfig Sync.Debounce = %v, want something fast", cfg.Sync.Debounce)
	}
}

func TestStarterSources(t *testing.T) {
	sources, err := StarterSources()
	if err != nil {
		t.Fatalf("StarterSources() error = %v", err)
	}
	if len(sources) == 0 {
		t.Fatal("StarterSources() returned no entries")
	}
	for _, s := range sources {
		if !strings.HasPrefix(s.URL, "https://") {
			t.Errorf("starter source %q is not https", s.URL)
		}
		if s.Title == "" {
			t.Errorf("starter source %s has no title", s.URL)
		}
	}
}
