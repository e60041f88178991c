package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Encode renders the configuration as "yaml" or "toml".
func (c *Config) Encode(format string) ([]byte, error) {
	switch format {
	case "", "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("failed to encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or toml)", format)
	}
}

// Template is the starter config written by `fcon config init`.
const Template = `# fcon configuration. Relative paths are resolved against this file.

# 2anki: export wiki cards to the deck import file(s).
# 2fwiki: write edits from a deck export back into the wiki.
direction: 2anki

# Directories scanned recursively for markdown files.
fwiki_paths:
  - ./wiki

# Every path receives the same full deck.
import_2_anki_paths:
  - ./anki/import.txt

# Deck exported from the study tool, read by 2fwiki.
export_from_anki_path: ./anki/export.txt

# Cards carrying any of these tags are not synced.
skip_tags:
  - "#ankiskip"
  - "#wip"

# Files whose content starts with this tag are skipped entirely.
file_skip_tag: "#ankiskip"

exclude_dirs:
  - .git
  - .obsidian
  - .trash

# Answers with more tags than this are not written back to the wiki.
markup_threshold: 10

# Card snapshot used by "fcon status". Leave empty to disable.
index_path: ./.fcon/index.db

log:
  file: ""
  max_size_mb: 10
  max_backups: 3
  max_age_days: 28
`

// WriteTemplate writes Template to path, refusing to overwrite unless force.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
