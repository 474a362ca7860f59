package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Source supplies the raw extension settings: a nested mapping keyed by
// detector prefix plus top-level keys such as notificationRecipients.
type Source interface {
	Load() (map[string]any, error)
}

// FileSource loads the extension settings from a YAML file.
type FileSource struct {
	Path string
}

// Load reads and parses the settings file.
func (s FileSource) Load() (map[string]any, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(s.Path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading settings from %s: %w", s.Path, err)
	}
	return k.Raw(), nil
}

// StaticSource serves a fixed settings mapping, mainly for tests and the
// demo command.
type StaticSource map[string]any

// Load returns the mapping as-is.
func (s StaticSource) Load() (map[string]any, error) {
	return s, nil
}
