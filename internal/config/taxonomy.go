package config

import (
	"fmt"
	"os"

	"farmmarket/internal/model"

	"gopkg.in/yaml.v3"
)

// LoadTaxonomy returns the built-in taxonomy, extended by the YAML file at
// path when one is given. Example file:
//
//	categories: [Honey, Flowers]
//	units: [jar]
func LoadTaxonomy(path string) (*model.Taxonomy, error) {
	taxonomy := model.DefaultTaxonomy()
	if path == "" {
		return taxonomy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var ext model.TaxonomyExtension
	if err := yaml.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file %s: %w", path, err)
	}

	taxonomy.Extend(ext)
	return taxonomy, nil
}
