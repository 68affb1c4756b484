package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pders01/riffle/internal/config"
	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/feed"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage feed sources",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		sources, err := store.Sources()
		if err != nil {
			return fmt.Errorf("listing sources: %w", err)
		}
		if len(sources) == 0 {
			fmt.Println("No sources configured. Add one with: riffle sources add <url>")
			return nil
		}

		for _, source := range sources {
			count, err := store.CountArticles(source.ID)
			if err != nil {
				return fmt.Errorf("counting articles: %w", err)
			}
			title := source.Title
			if title == "" {
				title = source.URL
			}
			fmt.Printf("%4d  %s (%d articles)\n      %s\n", source.ID, title, count, source.URL)
		}
		return nil
	},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <url> [url...]",
	Short: "Add sources and fetch their first articles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		syncer := feed.NewSyncer(store, events.NewBus())
		syncer.SetHTTPTimeout(cfg.Feed.HTTPTimeout)

		failed := 0
		for _, rawURL := range args {
			source, err := syncer.AddSource(cmd.Context(), rawURL)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "Failed to add %s: %v\n", rawURL, err)
				continue
			}
			title := source.Title
			if title == "" {
				title = source.URL
			}
			fmt.Printf("Added: %s\n", title)
		}
		if failed > 0 {
			return fmt.Errorf("%d source(s) could not be added", failed)
		}
		return nil
	},
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a source and its articles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid source id %q", args[0])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		syncer := feed.NewSyncer(store, events.NewBus())
		if err := syncer.RemoveSource(id); err != nil {
			return fmt.Errorf("removing source: %w", err)
		}
		fmt.Printf("Removed source %d.\n", id)
		return nil
	},
}

var sourcesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import sources from a YAML file",
	Long:  "Import sources from a YAML file, or from stdin when the file is \"-\".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		syncer := feed.NewSyncer(store, events.NewBus())
		added, err := syncer.ImportSources(r)
		if err != nil {
			return fmt.Errorf("importing sources: %w", err)
		}
		fmt.Printf("Imported %d source(s). Run: riffle sync\n", added)
		return nil
	},
}

var sourcesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export sources as YAML",
	Long:  "Export the configured sources as YAML to the given file, or to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		var w io.Writer = os.Stdout
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}
			defer f.Close()
			w = f
		}

		syncer := feed.NewSyncer(store, events.NewBus())
		if err := syncer.ExportSources(w); err != nil {
			return fmt.Errorf("exporting sources: %w", err)
		}
		return nil
	},
}

var sourcesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the starter source list",
	Long:  "Store the bundled starter sources without fetching them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		starters, err := config.StarterSources()
		if err != nil {
			return fmt.Errorf("reading starter sources: %w", err)
		}
		entries := make([]feed.SeedEntry, 0, len(starters))
		for _, starter := range starters {
			entries = append(entries, feed.SeedEntry{URL: starter.URL, Title: starter.Title})
		}

		syncer := feed.NewSyncer(store, events.NewBus())
		added, err := syncer.SeedSources(entries)
		if err != nil {
			return fmt.Errorf("seeding sources: %w", err)
		}
		fmt.Printf("Seeded %d starter source(s). Run: riffle sync\n", added)
		return nil
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	sourcesCmd.AddCommand(sourcesImportCmd)
	sourcesCmd.AddCommand(sourcesExportCmd)
	sourcesCmd.AddCommand(sourcesInitCmd)
}
