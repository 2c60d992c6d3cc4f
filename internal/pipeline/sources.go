package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is one remote document listed in sources_t3.yaml
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Type string `yaml:"type,omitempty"` // pdf, html, txt or auto
}

type sourceList struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the source list. Entries without a name or URL are rejected.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	var list sourceList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse sources %s: %w", path, err)
	}

	seen := make(map[string]bool)
	for i, s := range list.Sources {
		if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.URL) == "" {
			return nil, fmt.Errorf("source %d: name and url are required", i+1)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("source %q listed twice", s.Name)
		}
		seen[s.Name] = true
	}

	return list.Sources, nil
}

// FilterSources keeps the sources whose name is in only. An empty filter keeps all.
func FilterSources(sources []Source, only []string) []Source {
	if len(only) == 0 {
		return sources
	}

	allow := make(map[string]bool, len(only))
	for _, n := range only {
		if n = strings.TrimSpace(n); n != "" {
			allow[n] = true
		}
	}

	var kept []Source
	for _, s := range sources {
		if allow[s.Name] {
			kept = append(kept, s)
		}
	}
	return kept
}
