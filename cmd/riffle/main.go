package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/riffle/internal/config"
	"github.com/pders01/riffle/internal/debuglog"
	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/feed"
	"github.com/pders01/riffle/internal/feedcache"
	"github.com/pders01/riffle/internal/navsignal"
	"github.com/pders01/riffle/internal/opener"
	"github.com/pders01/riffle/internal/search"
	"github.com/pders01/riffle/internal/storage"
	"github.com/pders01/riffle/internal/tui"
	"github.com/pders01/riffle/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	flagConfig   string
	flagDB       string
	flagLogLevel string
	flagQuiet    bool
	flagSource   string
)

var rootCmd = &cobra.Command{
	Use:   "riffle",
	Short: "Swipeable terminal feed reader",
	Long: "riffle keeps one tab per feed source plus an aggregate tab across\n" +
		"all of them, with swipe navigation and a reader that remembers where\n" +
		"you left off.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error, off")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "skip startup banner")
	rootCmd.Flags().StringVar(&flagSource, "source", "", "start on the given source's tab (id or title)")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.Path); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer debuglog.Close()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if !flagQuiet {
		tui.ShowBanner(Version)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bus := events.NewBus()
	syncer := feed.NewSyncer(store, bus)
	syncer.SetHTTPTimeout(cfg.Feed.HTTPTimeout)

	coordinator := feedcache.NewCoordinator(store, syncer, bus, feedcache.Options{
		PageSize:          cfg.Cache.PageSize,
		PerSourceLimit:    cfg.Cache.PerSourceLimit,
		SyncDebounce:      cfg.Sync.Debounce,
		SyncInterval:      cfg.Sync.Interval,
		SyncMaxConcurrent: cfg.Sync.MaxConcurrent,
		SourceCount: func() int {
			sources, err := store.Sources()
			if err != nil {
				return 0
			}
			return len(sources)
		},
	})

	bridge := navsignal.NewBridge()
	if flagSource != "" {
		requestSourceTab(bridge, flagSource)
	}

	app := tui.NewApp(tui.Deps{
		Ctx:         ctx,
		Config:      cfg,
		Store:       store,
		Syncer:      syncer,
		Coordinator: coordinator,
		Bus:         bus,
		Bridge:      bridge,
		Searcher:    search.New(store, bus, cfg.Search.Engine, cfg.Search.IndexPath),
		Opener:      opener.New(cfg.UI.Opener),
	})
	defer app.Close()

	coordinator.Start(ctx)
	defer coordinator.Stop()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// requestSourceTab parks a deep link so the first tab build lands on the
// wanted source. A numeric value is a source id; anything else matches by
// title.
func requestSourceTab(bridge *navsignal.Bridge, value string) {
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		bridge.RequestSource(id, "")
		return
	}
	bridge.RequestSource(0, value)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	dbPath, err := validation.NewPathGuard().EnsureFile(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}
	return storage.NewStore(dbPath)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("riffle %s\n", Version)
		fmt.Println("Swipeable feed reader")
		fmt.Println("github.com/pders01/riffle")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.GenerateDefaultConfig(flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
	},
}

func init() {
	configCmd.AddCommand(configGenCmd)
}
