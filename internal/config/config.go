package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds all configurable settings for riffle.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Search   SearchConfig   `mapstructure:"search"`
	Tabs     TabsConfig     `mapstructure:"tabs"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds bbolt settings.
type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FeedConfig holds fetching settings.
type FeedConfig struct {
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
}

// CacheConfig sizes the per-tab article cache.
type CacheConfig struct {
	PageSize       int `mapstructure:"page_size"`
	PerSourceLimit int `mapstructure:"per_source_limit"`
}

// SyncConfig drives the background sync scheduler.
type SyncConfig struct {
	Debounce      time.Duration `mapstructure:"debounce"`
	Interval      time.Duration `mapstructure:"interval"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

// SearchConfig selects and locates the search engine.
type SearchConfig struct {
	Engine    string `mapstructure:"engine"`
	IndexPath string `mapstructure:"index_path"`
}

// TabsConfig controls the tab row.
type TabsConfig struct {
	ShowAggregate  bool   `mapstructure:"show_aggregate"`
	AggregateTitle string `mapstructure:"aggregate_title"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Colors UIColors     `mapstructure:"colors"`
	Reader ReaderConfig `mapstructure:"reader"`
	Opener string       `mapstructure:"opener"`
}

// UIColors defines the color scheme.
type UIColors struct {
	Primary string `mapstructure:"primary"`
	Accent  string `mapstructure:"accent"`
	Text    string `mapstructure:"text"`
	Muted   string `mapstructure:"muted"`
	Error   string `mapstructure:"error"`
	Success string `mapstructure:"success"`
}

// ReaderConfig bounds the rendered article width.
type ReaderConfig struct {
	MaxWidth int `mapstructure:"max_width"`
	MinWidth int `mapstructure:"min_width"`
}

// KeyConfig wraps the key bindings.
type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

// KeyBindings maps actions to keys.
type KeyBindings struct {
	Quit         string `mapstructure:"quit"`
	Help         string `mapstructure:"help"`
	Search       string `mapstructure:"search"`
	Refresh      string `mapstructure:"refresh"`
	AddSource    string `mapstructure:"add_source"`
	DeleteSource string `mapstructure:"delete_source"`
	RenameSource string `mapstructure:"rename_source"`
	ToggleRead   string `mapstructure:"toggle_read"`
	ToggleStar   string `mapstructure:"toggle_star"`
	OpenLink     string `mapstructure:"open_link"`
	Back         string `mapstructure:"back"`
	NextTab      string `mapstructure:"next_tab"`
	PrevTab      string `mapstructure:"prev_tab"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    filepath.Join(xdg.DataHome, "riffle", "riffle.db"),
			Timeout: 1 * time.Second,
		},
		Feed: FeedConfig{
			HTTPTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			PageSize:       20,
			PerSourceLimit: 10,
		},
		Sync: SyncConfig{
			Debounce:      500 * time.Millisecond,
			Interval:      10 * time.Minute,
			MaxConcurrent: 3,
		},
		Search: SearchConfig{
			Engine:    "bleve",
			IndexPath: filepath.Join(xdg.DataHome, "riffle", "index.bleve"),
		},
		Tabs: TabsConfig{
			ShowAggregate:  true,
			AggregateTitle: "All",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary: "#7D56F4",
				Accent:  "#95E1D3",
				Text:    "#EAEAEA",
				Muted:   "#94A3B8",
				Error:   "#F38181",
				Success: "#98FB98",
			},
			Reader: ReaderConfig{
				MaxWidth: 100,
				MinWidth: 40,
			},
			Opener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:         "q",
				Help:         "?",
				Search:       "/",
				Refresh:      "r",
				AddSource:    "a",
				DeleteSource: "d",
				RenameSource: "R",
				ToggleRead:   "m",
				ToggleStar:   "s",
				OpenLink:     "o",
				Back:         "esc",
				NextTab:      "l",
				PrevTab:      "h",
			},
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(xdg.StateHome, "riffle", "riffle.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// ConfigDir returns the directory riffle reads its config file from.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "riffle")
}

// DefaultConfigPath returns the path Load falls back to when no explicit
// config file is given.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the configuration from the given path, falling back to
// $XDG_CONFIG_HOME/riffle/config.toml and then to built-in defaults.
// Environment variables prefixed with RIFFLE_ override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := defaultConfig()
	v.SetDefault("database.path", defaults.Database.Path)
	v.SetDefault("database.timeout", defaults.Database.Timeout)
	v.SetDefault("feed.http_timeout", defaults.Feed.HTTPTimeout)
	v.SetDefault("cache.page_size", defaults.Cache.PageSize)
	v.SetDefault("cache.per_source_limit", defaults.Cache.PerSourceLimit)
	v.SetDefault("sync.debounce", defaults.Sync.Debounce)
	v.SetDefault("sync.interval", defaults.Sync.Interval)
	v.SetDefault("sync.max_concurrent", defaults.Sync.MaxConcurrent)
	v.SetDefault("search.engine", defaults.Search.Engine)
	v.SetDefault("search.index_path", defaults.Search.IndexPath)
	v.SetDefault("tabs.show_aggregate", defaults.Tabs.ShowAggregate)
	v.SetDefault("tabs.aggregate_title", defaults.Tabs.AggregateTitle)
	v.SetDefault("ui.colors.primary", defaults.UI.Colors.Primary)
	v.SetDefault("ui.colors.accent", defaults.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", defaults.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", defaults.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", defaults.UI.Colors.Error)
	v.SetDefault("ui.colors.success", defaults.UI.Colors.Success)
	v.SetDefault("ui.reader.max_width", defaults.UI.Reader.MaxWidth)
	v.SetDefault("ui.reader.min_width", defaults.UI.Reader.MinWidth)
	v.SetDefault("ui.opener", defaults.UI.Opener)
	v.SetDefault("keys.bindings.quit", defaults.Keys.Bindings.Quit)
	v.SetDefault("keys.bindings.help", defaults.Keys.Bindings.Help)
	v.SetDefault("keys.bindings.search", defaults.Keys.Bindings.Search)
	v.SetDefault("keys.bindings.refresh", defaults.Keys.Bindings.Refresh)
	v.SetDefault("keys.bindings.add_source", defaults.Keys.Bindings.AddSource)
	v.SetDefault("keys.bindings.delete_source", defaults.Keys.Bindings.DeleteSource)
	v.SetDefault("keys.bindings.rename_source", defaults.Keys.Bindings.RenameSource)
	v.SetDefault("keys.bindings.toggle_read", defaults.Keys.Bindings.ToggleRead)
	v.SetDefault("keys.bindings.toggle_star", defaults.Keys.Bindings.ToggleStar)
	v.SetDefault("keys.bindings.open_link", defaults.Keys.Bindings.OpenLink)
	v.SetDefault("keys.bindings.back", defaults.Keys.Bindings.Back)
	v.SetDefault("keys.bindings.next_tab", defaults.Keys.Bindings.NextTab)
	v.SetDefault("keys.bindings.prev_tab", defaults.Keys.Bindings.PrevTab)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.path", defaults.Log.Path)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RIFFLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if configPath != "" || !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Search.IndexPath = expandPath(cfg.Search.IndexPath)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	return cfg, nil
}

func expandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

// Save writes the configuration to the given path in TOML format.
func (c *Config) Save(path string) error {
	v := viper.New()

	v.Set("database", map[string]interface{}{
		"path":    c.Database.Path,
		"timeout": c.Database.Timeout.String(),
	})
	v.Set("feed", map[string]interface{}{
		"http_timeout": c.Feed.HTTPTimeout.String(),
	})
	v.Set("cache", map[string]interface{}{
		"page_size":        c.Cache.PageSize,
		"per_source_limit": c.Cache.PerSourceLimit,
	})
	v.Set("sync", map[string]interface{}{
		"debounce":       c.Sync.Debounce.String(),
		"interval":       c.Sync.Interval.String(),
		"max_concurrent": c.Sync.MaxConcurrent,
	})
	v.Set("search", map[string]interface{}{
		"engine":     c.Search.Engine,
		"index_path": c.Search.IndexPath,
	})
	v.Set("tabs", map[string]interface{}{
		"show_aggregate":  c.Tabs.ShowAggregate,
		"aggregate_title": c.Tabs.AggregateTitle,
	})
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"primary": c.UI.Colors.Primary,
			"accent":  c.UI.Colors.Accent,
			"text":    c.UI.Colors.Text,
			"muted":   c.UI.Colors.Muted,
			"error":   c.UI.Colors.Error,
			"success": c.UI.Colors.Success,
		},
		"reader": map[string]interface{}{
			"max_width": c.UI.Reader.MaxWidth,
			"min_width": c.UI.Reader.MinWidth,
		},
		"opener": c.UI.Opener,
	})
	v.Set("keys", map[string]interface{}{
		"bindings": map[string]interface{}{
			"quit":          c.Keys.Bindings.Quit,
			"help":          c.Keys.Bindings.Help,
			"search":        c.Keys.Bindings.Search,
			"refresh":       c.Keys.Bindings.Refresh,
			"add_source":    c.Keys.Bindings.AddSource,
			"delete_source": c.Keys.Bindings.DeleteSource,
			"rename_source": c.Keys.Bindings.RenameSource,
			"toggle_read":   c.Keys.Bindings.ToggleRead,
			"toggle_star":   c.Keys.Bindings.ToggleStar,
			"open_link":     c.Keys.Bindings.OpenLink,
			"back":          c.Keys.Bindings.Back,
			"next_tab":      c.Keys.Bindings.NextTab,
			"prev_tab":      c.Keys.Bindings.PrevTab,
		},
	})
	v.Set("log", map[string]interface{}{
		"level": c.Log.Level,
		"path":  c.Log.Path,
	})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// GenerateDefaultConfig writes the default configuration to path, or to
// the standard location when path is empty, and returns where it wrote.
func GenerateDefaultConfig(path string) (string, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists at %s", path)
	}
	if err := defaultConfig().Save(path); err != nil {
		return "", err
	}
	return path, nil
}
