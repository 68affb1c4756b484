package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pders01/riffle/internal/debuglog"
	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/feed"
	"github.com/pders01/riffle/internal/feedcache"
	"github.com/pders01/riffle/internal/storage"
)

var flagSyncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch all feeds once and exit",
	Long: "Fetch every configured source, store new articles, and print a\n" +
		"summary. Useful from cron or before going offline.",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		syncer := feed.NewSyncer(store, events.NewBus())
		syncer.SetHTTPTimeout(cfg.Feed.HTTPTimeout)
		syncer.SetForceRefresh(flagSyncForce)

		fetched := 0
		failed := 0
		err = syncer.SyncAll(cmd.Context(), feedcache.SyncAllOptions{
			MaxConcurrent: cfg.Sync.MaxConcurrent,
			OnProgress: func(done, total int, name string) {
				fmt.Printf("[%d/%d] %s\n", done, total, name)
			},
			OnArticles: func(articles []*storage.Article, name string) {
				fetched += len(articles)
			},
			OnError: func(err error, name string) {
				failed++
				fmt.Fprintf(os.Stderr, "  %s: %v\n", name, err)
			},
		})
		if err != nil {
			return fmt.Errorf("syncing: %w", err)
		}

		if failed > 0 {
			fmt.Printf("Synced %d article(s), %d source(s) failed.\n", fetched, failed)
		} else {
			fmt.Printf("Synced %d article(s).\n", fetched)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&flagSyncForce, "force", false, "refetch feeds even when the server reports no changes")
}
