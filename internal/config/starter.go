package config

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

//go:embed starter.toml
var starterTOML []byte

// StarterSource is one entry from the embedded getting-started feed list.
type StarterSource struct {
	URL   string `toml:"url"`
	Title string `toml:"title"`
}

type starterFile struct {
	Sources []StarterSource `toml:"sources"`
}

// StarterSources returns the feeds riffle offers to a fresh install.
func StarterSources() ([]StarterSource, error) {
	var f starterFile
	if err := toml.Unmarshal(starterTOML, &f); err != nil {
		return nil, fmt.Errorf("parsing starter sources: %w", err)
	}
	return f.Sources, nil
}
