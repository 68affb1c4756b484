package feed

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/storage"
)

// sourcesFile is the YAML shape of an exported source list.
type sourcesFile struct {
	Sources []sourceEntry `yaml:"sources"`
}

type sourceEntry struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title,omitempty"`
}

// ExportSources writes the configured sources to w as YAML, in the order
// they were added.
func (s *Syncer) ExportSources(w io.Writer) error {
	sources, err := s.store.Sources()
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	file := sourcesFile{Sources: make([]sourceEntry, 0, len(sources))}
	for _, source := range sources {
		file.Sources = append(file.Sources, sourceEntry{
			URL:   source.URL,
			Title: source.Title,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}
	return enc.Close()
}

// SeedEntry is a url/title pair to store without fetching.
type SeedEntry struct {
	URL   string
	Title string
}

// ImportSources reads a YAML source list and stores every URL that is not
// already configured. Nothing is fetched here; the next sync fills the
// articles in. Returns how many sources were added.
func (s *Syncer) ImportSources(r io.Reader) (int, error) {
	var file sourcesFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return 0, fmt.Errorf("decoding sources: %w", err)
	}

	entries := make([]SeedEntry, 0, len(file.Sources))
	for _, entry := range file.Sources {
		entries = append(entries, SeedEntry{URL: entry.URL, Title: entry.Title})
	}
	return s.SeedSources(entries)
}

// SeedSources stores the given entries, skipping invalid URLs and sources
// that already exist. Returns how many were added.
func (s *Syncer) SeedSources(entries []SeedEntry) (int, error) {
	added := 0
	for _, entry := range entries {
		normalized, err := s.validator.ValidateAndNormalize(entry.URL)
		if err != nil {
			s.log.Warnf("skipping %s: %v", entry.URL, err)
			continue
		}
		existing, err := s.findByURL(normalized)
		if err != nil {
			return added, err
		}
		if existing != nil {
			continue
		}

		source := &storage.Source{
			URL:     normalized,
			Title:   entry.Title,
			AddedAt: time.Now(),
		}
		if err := s.store.SaveSource(source); err != nil {
			return added, fmt.Errorf("saving %s: %w", normalized, err)
		}
		s.publish(events.CacheEvent{Kind: events.SourceUpdated, SourceID: source.ID})
		added++
	}

	s.log.Infof("imported %d sources", added)
	return added, nil
}
