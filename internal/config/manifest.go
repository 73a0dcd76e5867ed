package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"awards/internal"
)

// Dataset describes which files the loader expects and how to read them.
type Dataset struct {
	Ceremonies      []internal.Ceremony            `yaml:"ceremonies"`
	Types           []internal.EntityType          `yaml:"types"`
	Categories      map[string]internal.EntityType `yaml:"categories"`
	UnwantedColumns []string                       `yaml:"unwantedColumns"`
}

func DefaultDataset() Dataset {
	cats := make(map[string]internal.EntityType, len(internal.DefaultCategories))
	for k, v := range internal.DefaultCategories {
		cats[k] = v
	}
	return Dataset{
		Ceremonies:      append([]internal.Ceremony(nil), internal.DefaultCeremonies...),
		Types:           append([]internal.EntityType(nil), internal.DefaultTypes...),
		Categories:      cats,
		UnwantedColumns: append([]string(nil), internal.DefaultUnwantedColumns...),
	}
}

// LoadManifest reads a YAML dataset manifest. Sections left out keep their
// defaults.
func LoadManifest(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("manifest: %w", err)
	}
	return ParseManifest(raw)
}

func ParseManifest(raw []byte) (Dataset, error) {
	var fileDS Dataset
	if err := yaml.Unmarshal(raw, &fileDS); err != nil {
		return Dataset{}, fmt.Errorf("manifest: %w", err)
	}

	ds := DefaultDataset()
	if len(fileDS.Ceremonies) > 0 {
		ds.Ceremonies = fileDS.Ceremonies
	}
	if len(fileDS.Types) > 0 {
		ds.Types = fileDS.Types
	}
	if len(fileDS.Categories) > 0 {
		ds.Categories = fileDS.Categories
	}
	if fileDS.UnwantedColumns != nil {
		ds.UnwantedColumns = fileDS.UnwantedColumns
	}
	return ds, ds.Validate()
}

func (d Dataset) Validate() error {
	for _, t := range d.Types {
		if !t.Valid() {
			return fmt.Errorf("manifest: unknown entity type %q", t)
		}
	}
	for cat, t := range d.Categories {
		if !t.Valid() {
			return fmt.Errorf("manifest: category %q maps to unknown type %q", cat, t)
		}
	}
	seen := map[string]struct{}{}
	for _, c := range d.Ceremonies {
		key := strings.ToLower(strings.TrimSpace(string(c)))
		if key == "" {
			return fmt.Errorf("manifest: empty ceremony name")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("manifest: duplicate ceremony %q", c)
		}
		seen[key] = struct{}{}
	}
	return nil
}
