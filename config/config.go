// Package config holds the tool configuration: identifier priority,
// duplicate threshold and output options, loadable from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/bibtools/bibmano"
	"github.com/bibtools/bibmano/schema/manubot"
	"gopkg.in/yaml.v3"
)

// Config for the conversion pipeline.
type Config struct {
	// CitationPriority is the ordered identifier family preference.
	// Unknown names are ignored at resolution time.
	CitationPriority []string `yaml:"citation_priority"`
	Dedup            struct {
		// MinOverlap is the consecutive-word run threshold; zero keeps
		// the built-in default.
		MinOverlap int `yaml:"min_overlap"`
	} `yaml:"dedup"`
	Output struct {
		IncludeMetadata bool   `yaml:"include_metadata"`
		Format          string `yaml:"format"` // yaml or json
	} `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var c Config
	c.CitationPriority = []string{"doi", "pmid", "pmcid", "arxiv", "isbn", "url"}
	c.Output.IncludeMetadata = true
	c.Output.Format = "yaml"
	return &c
}

// DefaultPath is the XDG location probed when no -c flag is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, bibmano.AppName, "config.yaml")
}

// Load reads a YAML config file; a missing file falls back to the
// defaults, any other problem is an error. Omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		path = DefaultPath()
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Priority converts the configured family names, dropping unknown ones.
func (c *Config) Priority() []manubot.Family {
	var priority []manubot.Family
	for _, name := range c.CitationPriority {
		if f, ok := manubot.ParseFamily(name); ok && f != manubot.FamilyRaw {
			priority = append(priority, f)
		}
	}
	return priority
}
